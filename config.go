package mclang

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds the typed runtime knobs that steer code generation and
// Layer/DeviceLayer behavior: whether builds run asynchronously, the
// default image sampler, how strict Argument type-mask checks are, and
// so on.
type Config map[string]*cfgVal

// NewConfig returns a configuration primed with the defaults the
// builder and layer runtime expect.
func NewConfig() *Config {
	m := make(Config)
	m.SetBool("codegen.hex_literals", true)
	m.SetBool("build.async", true)
	m.SetString("sampler.default_filter", "nearest")
	m.SetBool("layer.strict_masks", true)
	m.SetInt("layer.max_version_history", 0)
	return &m
}

type cfgValType int

const (
	cfgValTypeUndefined cfgValType = iota
	cfgValTypeBool
	cfgValTypeInt
	cfgValTypeString
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValTypeUndefined: "undefined",
		cfgValTypeBool:      "bool",
		cfgValTypeInt:       "int",
		cfgValTypeString:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValTypeUndefined {
		panic(fmt.Sprintf("can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeBool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeInt)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeString)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeBool)
		return val.asBool
	}
	panic(fmt.Sprintf("bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeInt)
		return val.asInt
	}
	panic(fmt.Sprintf("int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeString)
		return val.asString
	}
	panic(fmt.Sprintf("string setting `%s` does not exist", path))
}

// DumpYAML renders the configuration as a plain YAML mapping, losing
// the per-key type tags (a reader only needs the value back).
func (c *Config) DumpYAML() ([]byte, error) {
	plain := make(map[string]any, len(*c))
	for k, v := range *c {
		switch v.typ {
		case cfgValTypeBool:
			plain[k] = v.asBool
		case cfgValTypeInt:
			plain[k] = v.asInt
		case cfgValTypeString:
			plain[k] = v.asString
		}
	}
	return yaml.Marshal(plain)
}

// LoadYAML overlays key/value pairs decoded from YAML onto the
// configuration. Keys not already present are rejected: Config only
// ever holds the fixed set of knobs declared by NewConfig.
func (c *Config) LoadYAML(data []byte) error {
	var plain map[string]any
	if err := yaml.Unmarshal(data, &plain); err != nil {
		return err
	}
	for k, v := range plain {
		existing, ok := (*c)[k]
		if !ok {
			return fmt.Errorf("unknown config key `%s`", k)
		}
		switch existing.typ {
		case cfgValTypeBool:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("config key `%s` expects a bool", k)
			}
			c.SetBool(k, b)
		case cfgValTypeInt:
			i, ok := v.(int)
			if !ok {
				return fmt.Errorf("config key `%s` expects an int", k)
			}
			c.SetInt(k, i)
		case cfgValTypeString:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("config key `%s` expects a string", k)
			}
			c.SetString(k, s)
		}
	}
	return nil
}
