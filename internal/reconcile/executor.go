package reconcile

import (
	"context"

	"github.com/msageha/mcuwatch/internal/model"
)

//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=../mocks/mock_executor.go -package=mocks

// Executor is the bridge as the reconciler sees it: two status reads and the
// corrective actions. *mcu.Client implements it.
type Executor interface {
	ConferenceStatus(ctx context.Context, conference string) (model.ConferenceStatus, error)
	ParticipantStatus(ctx context.Context, conference, participant string) (model.ParticipantStatus, error)
	LockConference(ctx context.Context, conference string) error
	ConnectParticipant(ctx context.Context, conference, participant string) error
	DisconnectParticipant(ctx context.Context, conference, participant string) error
	// AddParticipant stands in for ConnectParticipant when the bridge no
	// longer knows the participant.
	AddParticipant(ctx context.Context, conference string, p model.ParticipantConfig) error
	RestoreLayout(ctx context.Context, conference, participant string, paneIndex int) error
}
