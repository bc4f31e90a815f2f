// Package genome implements the packed-gene codec and the genetic
// operators (mutation, crossover, similarity) that operate on ordered gene
// sequences.
package genome

// EndpointType distinguishes a gene endpoint's kind: either it names an
// internal neuron, or it names a sensor (source side) / action (sink
// side).
type EndpointType uint8

const (
	Neuron    EndpointType = 0
	SensorOrAction EndpointType = 1
)

// Gene is the structured (unpacked) form of one connection in a genome.
// SourceId/SinkId are raw 7-bit IDs as stored in the genome; they are
// remapped into dense post-build ranges only when a NeuralNet is
// constructed from the genome (see package neural).
type Gene struct {
	SourceType EndpointType
	SourceId   uint8 // 7 bits: 0..127
	SinkType   EndpointType
	SinkId     uint8 // 7 bits: 0..127
	Weight     int16
}

// WeightScale converts a raw int16 weight into its real-valued form.
const WeightScale = 8192.0

// Real returns the gene's weight divided by the fixed-point scale.
func (g Gene) Real() float64 {
	return float64(g.Weight) / WeightScale
}

// Pack encodes a Gene into its 32-bit wire representation:
// [31 sourceType][30..24 sourceId][23 sinkType][22..16 sinkId][15..0 weight].
func Pack(g Gene) uint32 {
	var w uint32
	w |= uint32(g.SourceType&1) << 31
	w |= uint32(g.SourceId&0x7F) << 24
	w |= uint32(g.SinkType&1) << 23
	w |= uint32(g.SinkId&0x7F) << 16
	w |= uint32(uint16(g.Weight))
	return w
}

// Unpack decodes a 32-bit word into a structured Gene. Pack/Unpack form a
// bijection over all 2^32 values: Pack(Unpack(w)) == w for every w, and
// Unpack(Pack(g)) == g for every in-range g.
func Unpack(w uint32) Gene {
	return Gene{
		SourceType: EndpointType((w >> 31) & 1),
		SourceId:   uint8((w >> 24) & 0x7F),
		SinkType:   EndpointType((w >> 23) & 1),
		SinkId:     uint8((w >> 16) & 0x7F),
		Weight:     int16(uint16(w & 0xFFFF)),
	}
}
