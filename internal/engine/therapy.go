package engine

// synthesizeTherapyBlock runs D->E->F->G->H for one block of the
// active row, writing the result into out (8 channels x blockLen).
// carrier, modulator and fade state are threaded through by pointer so
// they persist across calls.
func synthesizeTherapyBlock(
	row Row,
	trim UserTrim,
	t0 float64,
	blockLen int,
	carrier *CarrierState,
	modulator *ModulatorState,
	fade *FadeState,
	scratch *blockScratch,
	out *[8][]float64,
) {
	carrier.Generate(row, t0, blockLen, scratch.carrier)

	modulator.Generate(row, blockLen, &scratch.logical)
	for k := 0; k < 4; k++ {
		logical := scratch.logical[k]
		for n := 0; n < blockLen; n++ {
			logical[n] = scratch.carrier[n] * logical[n]
		}
	}

	route(row.Mode, scratch.logical, blockLen, out)

	gains := computeZoneGains(row, trim)
	channelGain := [8]float64{}
	for ch := 0; ch < 8; ch++ {
		switch channelZone[ch] {
		case ZoneNeck:
			channelGain[ch] = gains.Neck
		case ZoneBack:
			channelGain[ch] = gains.Back
		case ZoneThighs:
			channelGain[ch] = gains.Thighs
		case ZoneLegs:
			channelGain[ch] = gains.Legs
		}
	}

	fade.Advance(blockLen, scratch.fadeMul)

	o := *out
	for ch := 0; ch < 8; ch++ {
		dst := o[ch]
		g := channelGain[ch]
		for n := 0; n < blockLen; n++ {
			dst[n] = dst[n] * g * scratch.fadeMul[n]
		}
	}
}

// blockScratch holds the per-engine reusable scratch buffers so the
// hot loop does not allocate every tick.
type blockScratch struct {
	carrier []float64
	logical [4][]float64
	fadeMul []float64
}

func newBlockScratch(blockLen int) *blockScratch {
	s := &blockScratch{
		carrier: make([]float64, blockLen),
		fadeMul: make([]float64, blockLen),
	}
	for k := range s.logical {
		s.logical[k] = make([]float64, blockLen)
	}
	return s
}
