package mclang

import "fmt"

// ImageAddressing selects whether SelectImage's sampler treats image
// coordinates as normalized ([0,1]) or unnormalized (pixel) space.
type ImageAddressing int

const (
	AddressUnnormalized ImageAddressing = iota
	AddressNormalized
)

func (a ImageAddressing) letter() string {
	if a == AddressNormalized {
		return "t"
	}
	return "f"
}

func (a ImageAddressing) clkName() string {
	if a == AddressNormalized {
		return "CLK_NORMALIZED_COORDS_TRUE"
	}
	return "CLK_NORMALIZED_COORDS_FALSE"
}

// ImageFilter selects SelectImage's sampler interpolation mode.
type ImageFilter int

const (
	FilterNearest ImageFilter = iota
	FilterLinear
)

func (f ImageFilter) letter() string {
	if f == FilterLinear {
		return "l"
	}
	return "n"
}

func (f ImageFilter) clkName() string {
	if f == FilterLinear {
		return "CLK_FILTER_LINEAR"
	}
	return "CLK_FILTER_NEAREST"
}

// DefaultFilter returns the sampler filter a caller should use when it
// has no per-call preference, per cfg's "sampler.default_filter"
// ("nearest" or "linear"). A nil cfg returns FilterNearest, matching
// NewConfig's own default.
func DefaultFilter(cfg *Config) ImageFilter {
	if cfg == nil || cfg.GetString("sampler.default_filter") != "linear" {
		return FilterNearest
	}
	return FilterLinear
}

// samplerName returns one of the four predeclared sampler constant
// names (smp_f_n, smp_f_l, smp_t_n, smp_t_l).
func samplerName(addr ImageAddressing, filt ImageFilter) string {
	return "smp_" + addr.letter() + "_" + filt.letter()
}

var samplerDeclIDs map[string]uint64

func init() {
	samplerDeclIDs = make(map[string]uint64, 4)
	for _, addr := range []ImageAddressing{AddressUnnormalized, AddressNormalized} {
		for _, filt := range []ImageFilter{FilterNearest, FilterLinear} {
			samplerDeclIDs[samplerName(addr, filt)] = newID()
		}
	}
}

// emitSamplerGlobal declares the sampler constant for (addr, filt) in
// w's global section exactly once across the whole build, regardless
// of how many SelectImage nodes reference it.
func emitSamplerGlobal(w *kernelWriter, seen *Seen, addr ImageAddressing, filt ImageFilter) {
	name := samplerName(addr, filt)
	if seen.Visit(samplerDeclIDs[name]) {
		return
	}
	w.writel(fmt.Sprintf("const sampler_t %s = %s | CLK_ADDRESS_CLAMP_TO_EDGE | %s;",
		name, addr.clkName(), filt.clkName()))
}
