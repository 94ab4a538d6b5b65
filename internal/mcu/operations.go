package mcu

// Operation is one remote call the watchdog knows how to make. Each request
// type owns its method name and parameter record; nothing is assembled from
// free-form maps elsewhere.
type Operation interface {
	Method() string
	Params() map[string]any
}

const (
	MethodConferenceStatus      = "conference.status"
	MethodConferenceModify      = "conference.modify"
	MethodParticipantStatus     = "participant.status"
	MethodParticipantConnect    = "participant.connect"
	MethodParticipantDisconnect = "participant.disconnect"
	MethodParticipantAdd        = "participant.add"
	MethodPanePlacementModify   = "conference.paneplacement.modify"
)

type ConferenceStatusRequest struct {
	ConferenceName string
}

func (ConferenceStatusRequest) Method() string { return MethodConferenceStatus }
func (r ConferenceStatusRequest) Params() map[string]any {
	return map[string]any{"conferenceName": r.ConferenceName}
}

type ConferenceLockRequest struct {
	ConferenceName string
}

func (ConferenceLockRequest) Method() string { return MethodConferenceModify }
func (r ConferenceLockRequest) Params() map[string]any {
	return map[string]any{"conferenceName": r.ConferenceName, "locked": true}
}

type ParticipantStatusRequest struct {
	ConferenceName  string
	ParticipantName string
}

func (ParticipantStatusRequest) Method() string { return MethodParticipantStatus }
func (r ParticipantStatusRequest) Params() map[string]any {
	return participantParams(r.ConferenceName, r.ParticipantName)
}

type ParticipantConnectRequest struct {
	ConferenceName  string
	ParticipantName string
}

func (ParticipantConnectRequest) Method() string { return MethodParticipantConnect }
func (r ParticipantConnectRequest) Params() map[string]any {
	return participantParams(r.ConferenceName, r.ParticipantName)
}

type ParticipantDisconnectRequest struct {
	ConferenceName  string
	ParticipantName string
}

func (ParticipantDisconnectRequest) Method() string { return MethodParticipantDisconnect }
func (r ParticipantDisconnectRequest) Params() map[string]any {
	return participantParams(r.ConferenceName, r.ParticipantName)
}

// ParticipantAddRequest registers a participant with the bridge, which then
// dials Address.
type ParticipantAddRequest struct {
	ConferenceName  string
	ParticipantName string
	Address         string
	DisplayName     string
}

func (ParticipantAddRequest) Method() string { return MethodParticipantAdd }
func (r ParticipantAddRequest) Params() map[string]any {
	p := participantParams(r.ConferenceName, r.ParticipantName)
	p["address"] = r.Address
	p["displayNameOverrideStatus"] = true
	p["displayNameOverrideValue"] = r.DisplayName
	return p
}

// PanePlacementRequest pins one participant into one layout pane.
type PanePlacementRequest struct {
	ConferenceName  string
	ParticipantName string
	PaneIndex       int
}

func (PanePlacementRequest) Method() string { return MethodPanePlacementModify }
func (r PanePlacementRequest) Params() map[string]any {
	return map[string]any{
		"conferenceName": r.ConferenceName,
		"panes": []any{
			map[string]any{
				"index":           r.PaneIndex,
				"type":            "participant",
				"participantName": r.ParticipantName,
			},
		},
	}
}

func participantParams(conference, participant string) map[string]any {
	return map[string]any{
		"conferenceName":  conference,
		"participantName": participant,
	}
}
