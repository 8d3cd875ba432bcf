package component

import "github.com/oomph-ac/rewind/player"

// Register registers the components for the given player.
func Register(p *player.Player) {
	p.SetPrediction(NewPredictionComponent(p))
	p.SetReconciliation(NewReconciliationComponent(p))
}
