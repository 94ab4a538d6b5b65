// Package mcu is the watchdog's view of the bridge: typed status reads and
// corrective actions over its XML-RPC control API.
package mcu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/model"
)

type Client struct {
	caller Caller
	log    *slog.Logger
}

func NewClient(caller Caller, log *slog.Logger) *Client {
	return &Client{caller: caller, log: log}
}

// do sends op and classifies any failure: bridge faults are application
// faults, everything else (network, HTTP, undecodable XML) is transport.
func (c *Client) do(ctx context.Context, op Operation) (map[string]any, error) {
	c.log.Debug("mcu request", "method", op.Method(), "params", op.Params())
	reply, err := c.caller.Call(ctx, op.Method(), op.Params())
	if err != nil {
		var rf *RemoteFault
		if errors.As(err, &rf) {
			return nil, fault.Application(op.Method(), err)
		}
		return nil, fault.Transport(op.Method(), err)
	}
	c.log.Debug("mcu response", "method", op.Method(), "reply", reply)
	return reply, nil
}

// ConferenceStatus reads whether a conference is running and locked. A
// conference the bridge does not know is reported as inactive.
func (c *Client) ConferenceStatus(ctx context.Context, conference string) (model.ConferenceStatus, error) {
	op := ConferenceStatusRequest{ConferenceName: conference}
	reply, err := c.do(ctx, op)
	if IsRemoteFault(err, FaultNoSuchConference) {
		return model.ConferenceStatus{Active: false}, nil
	}
	if err != nil {
		return model.ConferenceStatus{}, err
	}
	res, err := decodeConferenceStatus(reply)
	if err != nil {
		return model.ConferenceStatus{}, fault.Transport(op.Method(), err)
	}
	return model.ConferenceStatus{Active: res.Active, Locked: res.Locked}, nil
}

// ParticipantStatus reads one participant's call state and packet counters.
// A participant the bridge does not know is a normal, disconnected result.
func (c *Client) ParticipantStatus(ctx context.Context, conference, participant string) (model.ParticipantStatus, error) {
	op := ParticipantStatusRequest{ConferenceName: conference, ParticipantName: participant}
	reply, err := c.do(ctx, op)
	if IsRemoteFault(err, FaultNoSuchParticipant) {
		return model.ParticipantStatus{CallState: model.CallStateDisconnected, Known: false}, nil
	}
	if err != nil {
		return model.ParticipantStatus{}, err
	}
	res, err := decodeParticipantStatus(reply)
	if err != nil {
		return model.ParticipantStatus{}, fault.Transport(op.Method(), err)
	}
	return model.ParticipantStatus{
		CallState:            model.ParseCallState(res.CallState),
		RawCallState:         res.CallState,
		Known:                true,
		AudioPacketsReceived: res.AudioReceived,
		VideoPacketsReceived: res.VideoReceived,
	}, nil
}

func (c *Client) LockConference(ctx context.Context, conference string) error {
	return c.action(ctx, ConferenceLockRequest{ConferenceName: conference})
}

func (c *Client) ConnectParticipant(ctx context.Context, conference, participant string) error {
	return c.action(ctx, ParticipantConnectRequest{ConferenceName: conference, ParticipantName: participant})
}

func (c *Client) DisconnectParticipant(ctx context.Context, conference, participant string) error {
	return c.action(ctx, ParticipantDisconnectRequest{ConferenceName: conference, ParticipantName: participant})
}

// AddParticipant registers a participant the bridge has forgotten; the
// bridge dials it out as part of the add.
func (c *Client) AddParticipant(ctx context.Context, conference string, p model.ParticipantConfig) error {
	return c.action(ctx, ParticipantAddRequest{
		ConferenceName:  conference,
		ParticipantName: p.Name,
		Address:         p.Address,
		DisplayName:     p.DisplayNameOrName(),
	})
}

func (c *Client) RestoreLayout(ctx context.Context, conference, participant string, paneIndex int) error {
	return c.action(ctx, PanePlacementRequest{ConferenceName: conference, ParticipantName: participant, PaneIndex: paneIndex})
}

func (c *Client) action(ctx context.Context, op Operation) error {
	reply, err := c.do(ctx, op)
	if err != nil {
		return err
	}
	res, err := decodeAction(reply)
	if err != nil {
		return fault.Transport(op.Method(), err)
	}
	if err := res.Err(); err != nil {
		return fault.Application(op.Method(), fmt.Errorf("%s: %w", describe(op), err))
	}
	return nil
}

func describe(op Operation) string {
	params := op.Params()
	if p, ok := params["participantName"]; ok {
		return fmt.Sprintf("conference %v participant %v", params["conferenceName"], p)
	}
	return fmt.Sprintf("conference %v", params["conferenceName"])
}
