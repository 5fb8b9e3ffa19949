package rules

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := p.Apply(m)
		nodes += Perft(p, depth-1)
		unapply()
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by UCI string.
func Divide(p *Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range p.LegalMoves() {
		unapply := p.Apply(m)
		out[m.String()] = Perft(p, depth-1)
		unapply()
	}
	return out
}
