package random

// Kelemen perturbation kernel parameter
const s1 = 32.0

// Sequence is a replayable, perturbable stream of uniform draws split into
// independently addressable sub-sequences. Reads past the end of the current
// sub-sequence pull fresh draws from the underlying source and store them, so
// replaying a prefix after Reset yields bit-identical values.
type Sequence struct {
	source   Source
	values   [][]float64
	sequence int
	position int
}

// NewSequence creates an empty sequence backed by source
func NewSequence(source Source) *Sequence {
	return &Sequence{
		source: source,
		values: [][]float64{nil},
	}
}

// Next returns the draw at the current position, generating it if needed
func (s *Sequence) Next() float64 {
	seq := s.values[s.sequence]
	for s.position >= len(seq) {
		seq = append(seq, s.source.Next())
	}
	s.values[s.sequence] = seq

	x := seq[s.position]
	s.position++
	return x
}

// Compatible returns a fresh, empty sequence on an independent source
func (s *Sequence) Compatible() Source {
	return s.Fresh()
}

// Fresh returns an empty sequence on an independent source
func (s *Sequence) Fresh() *Sequence {
	return NewSequence(s.source.Compatible())
}

// Mark advances to the next sub-sequence, creating it if necessary
func (s *Sequence) Mark() {
	s.sequence++
	if s.sequence >= len(s.values) {
		s.values = append(s.values, nil)
	}
	s.position = 0
}

// Reset rewinds to the start of the first sub-sequence without discarding draws
func (s *Sequence) Reset() {
	s.sequence = 0
	s.position = 0
}

// Clone deep-copies the stored draws onto an independent source.
// The clone is rewound to the start.
func (s *Sequence) Clone() *Sequence {
	values := make([][]float64, len(s.values))
	for i, seq := range s.values {
		values[i] = append([]float64(nil), seq...)
	}
	return &Sequence{
		source: s.source.Compatible(),
		values: values,
	}
}

// Mutate perturbs every stored draw of the current sub-sequence from the
// current position onward
func (s *Sequence) Mutate(width float64) {
	seq := s.values[s.sequence]
	for i := s.position; i < len(seq); i++ {
		seq[i] = s.perturb(seq[i], width)
	}
}

// Len returns the number of sub-sequences and the draws stored in the current one
func (s *Sequence) Len() (int, int) {
	return len(s.values), len(s.values[s.sequence])
}

// perturb applies the heavy-tailed Kelemen kernel and wraps into [0,1)
func (s *Sequence) perturb(x, width float64) float64 {
	r := s.source.Next()
	dx := width/(1.0+s1*abs(2.0*r-1.0)) - width/(1.0+s1)
	if r < 0.5 {
		x1 := x + dx
		if x1 < 1.0 {
			return x1
		}
		return x1 - 1.0
	}
	x1 := x - dx
	if x1 < 0.0 {
		return x1 + 1.0
	}
	return x1
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
