package engine

// routingTable maps each of the four logical outputs to the set of
// physical speaker indices (0-7) it drives. Transcribed verbatim from
// the source schema's MODE_ROUTING; any deviation is a defect.
var routingTable = [8][4][]int{
	0: {{0, 1}, {2, 3}, {4, 5}, {6, 7}},
	1: {{6, 7}, {4, 5}, {2, 3}, {0, 1}},
	2: {{0, 2}, {4, 6}, {5, 7}, {1, 3}},
	3: {{0, 2}, {1, 3}, {4, 6}, {5, 7}},
	4: {{0, 1}, {6, 7}, {2, 3}, {4, 5}},
	5: {{2, 3}, {4, 5}, {0, 1}, {6, 7}},
	6: {{0, 3}, {1, 2}, {4, 7}, {5, 6}},
	7: {{0, 6}, {1, 7}, {3, 5}, {2, 4}},
}

// routingIndexFor returns the routing table row for mode. Modes 8-10
// are envelope variants, not routing variants, and fall back to
// ROUTING[0]; any other out-of-range mode also falls back to 0.
func routingIndexFor(mode int) int {
	if mode < 0 || mode > 7 {
		return 0
	}
	return mode
}

// channelZone maps each of the eight physical output channels to the
// anatomical zone whose gain trim applies to it, independent of which
// logical output the router assigned that speaker.
var channelZone = [8]Zone{
	0: ZoneNeck, 1: ZoneNeck,
	2: ZoneBack, 3: ZoneBack,
	4: ZoneThighs, 5: ZoneThighs,
	6: ZoneLegs, 7: ZoneLegs,
}

// route expands four logical-output envelope*carrier blocks into
// eight physical-channel blocks per the mode's routing table. A
// speaker fed by more than one logical output (none of the fixed
// tables do this, but the mapping itself doesn't forbid it) would sum;
// the fixed tables instead partition the eight speakers exactly once
// each.
func route(mode int, logical [4][]float64, blockLen int, out *[8][]float64) {
	table := routingTable[routingIndexFor(mode)]
	for ch := 0; ch < 8; ch++ {
		dst := (*out)[ch]
		for n := 0; n < blockLen; n++ {
			dst[n] = 0
		}
	}
	for outputIdx, speakers := range table {
		src := logical[outputIdx]
		for _, ch := range speakers {
			dst := (*out)[ch]
			for n := 0; n < blockLen; n++ {
				dst[n] += src[n]
			}
		}
	}
}
