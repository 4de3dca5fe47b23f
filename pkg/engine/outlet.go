package engine

// unknownTier is where sources the methodology has never heard of land.
const unknownTier = 3

// ResolveOutlet maps a source identifier to its trust tier and weight.
// Unknown outlets are never an error; they resolve to tier 3 with the lowest
// configured weight.
func (e *Engine) ResolveOutlet(source string) (tier int, weight float64) {
	m := e.methodology
	if t, ok := m.Outlets[source]; ok {
		if w, ok := m.TierWeights[t]; ok {
			return t, w
		}
	}
	return unknownTier, m.LowestTierWeight()
}

// platformWeight maps an audience platform to its trust weight, falling back
// to the configured default for unknown platforms.
func (e *Engine) platformWeight(platform string) float64 {
	if w, ok := e.methodology.Platforms[platform]; ok {
		return w
	}
	return e.methodology.DefaultPlatformWeight
}
