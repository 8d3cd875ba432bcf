package player

import (
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/message"
)

// ReconciliationComponent is the component of the player that applies authority reports. When the
// predicted position at the tick of a report diverges from the reported one, it rewinds the player to
// the report and simulates every cached input after it again.
type ReconciliationComponent interface {
	// Reconcile applies the report passed and returns what it did.
	Reconcile(report message.AuthorityReport) Correction
	// LastAcceptedTick returns the tick of the newest report that was not discarded as stale.
	LastAcceptedTick() game.Tick
	// Expire moves the last accepted tick up to game.MaxTickAge ticks behind the tick passed if it
	// trails further, so that reports remain comparable after a long silence.
	Expire(current game.Tick)
}

// SetReconciliation sets the reconciliation component of the player.
func (p *Player) SetReconciliation(c ReconciliationComponent) {
	p.reconciliation = c
}

// Reconciliation returns the reconciliation component of the player.
func (p *Player) Reconciliation() ReconciliationComponent {
	return p.reconciliation
}
