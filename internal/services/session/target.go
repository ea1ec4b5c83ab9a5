package session

import (
	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/KirkDiggler/taskguess/internal/random"
)

// SelectTarget picks uniformly among connected players that have not been a
// target yet. It returns nil when nobody is eligible.
func SelectTarget(players []*models.Player, excluded []models.PlayerID, picker random.Picker) *models.Player {
	eligible := eligibleTargets(players, excluded)
	if len(eligible) == 0 {
		return nil
	}
	return eligible[picker.Intn(len(eligible))]
}

func eligibleTargets(players []*models.Player, excluded []models.PlayerID) []*models.Player {
	skip := make(map[models.PlayerID]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	eligible := make([]*models.Player, 0, len(players))
	for _, p := range players {
		if p == nil || !p.IsConnected {
			continue
		}
		if _, ok := skip[p.ID]; ok {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}
