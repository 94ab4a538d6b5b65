package model

// PacketBaseline is the last persisted pair of packet counters for one
// (conference, participant). Used to detect lack of forward progress.
type PacketBaseline struct {
	Audio uint64 `json:"audio" yaml:"audio"`
	Video uint64 `json:"video" yaml:"video"`
}

// BaselineSet is the nested conference → participant → baseline mapping
// the state store persists.
type BaselineSet map[string]map[string]PacketBaseline

// Get returns the baseline for a pair, reporting whether it exists.
func (s BaselineSet) Get(conference, participant string) (PacketBaseline, bool) {
	participants, ok := s[conference]
	if !ok {
		return PacketBaseline{}, false
	}
	b, ok := participants[participant]
	return b, ok
}

// Set overwrites one pair without disturbing any other entry.
func (s BaselineSet) Set(conference, participant string, b PacketBaseline) {
	participants, ok := s[conference]
	if !ok {
		participants = make(map[string]PacketBaseline)
		s[conference] = participants
	}
	participants[participant] = b
}
