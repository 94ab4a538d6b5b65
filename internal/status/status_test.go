package status

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/mcuwatch/internal/freeze"
	"github.com/msageha/mcuwatch/internal/model"
)

type fakeReader struct {
	mu           sync.Mutex
	conferences  map[string]model.ConferenceStatus
	participants map[string]model.ParticipantStatus
	failing      map[string]bool
	calls        int
}

func (f *fakeReader) ConferenceStatus(_ context.Context, conference string) (model.ConferenceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing[conference] {
		return model.ConferenceStatus{}, errors.New("timeout")
	}
	return f.conferences[conference], nil
}

func (f *fakeReader) ParticipantStatus(_ context.Context, conference, participant string) (model.ParticipantStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := conference + "/" + participant
	if f.failing[key] {
		return model.ParticipantStatus{}, errors.New("connection reset")
	}
	return f.participants[key], nil
}

func u64(v uint64) *uint64 { return &v }

func fixture() (*fakeReader, []model.ConferenceConfig, model.BaselineSet) {
	reader := &fakeReader{
		conferences: map[string]model.ConferenceStatus{
			"board": {Active: true, Locked: false},
			"lobby": {Active: false},
		},
		participants: map[string]model.ParticipantStatus{
			"board/room-a": {CallState: model.CallStateConnected, RawCallState: "connected", Known: true, AudioPacketsReceived: u64(100), VideoPacketsReceived: u64(100)},
			"board/room-b": {CallState: model.CallStateDormant, RawCallState: "dormant", Known: true},
			"board/room-c": {CallState: model.CallStateConnected, RawCallState: "connected", Known: true, AudioPacketsReceived: u64(9), VideoPacketsReceived: u64(9)},
		},
		failing: map[string]bool{"board/room-d": true},
	}
	confs := []model.ConferenceConfig{
		{Name: "board", Locked: true, Participants: []model.ParticipantConfig{
			{Name: "room-a"}, {Name: "room-b"}, {Name: "room-c"}, {Name: "room-d"},
		}},
		{Name: "lobby"},
	}
	baselines := model.BaselineSet{}
	baselines.Set("board", "room-a", model.PacketBaseline{Audio: 100, Video: 100})
	return reader, confs, baselines
}

func TestCollect(t *testing.T) {
	reader, confs, baselines := fixture()

	snap, err := Collect(context.Background(), reader, baselines, freeze.PolicyBothStall, confs, 2)
	require.NoError(t, err)
	require.Len(t, snap.Conferences, 2)

	board := snap.Conferences[0]
	assert.True(t, board.Active)
	assert.False(t, board.Locked)
	assert.True(t, board.WantLocked)
	require.Len(t, board.Participants, 4)

	entries := map[string]string{}
	for _, p := range board.Participants {
		entries[p.Name] = p.Entry
	}
	assert.Equal(t, map[string]string{
		"room-a": "connected_frozen",
		"room-b": "dormant",
		"room-c": "connected_healthy",
		"room-d": "status_unavailable",
	}, entries)
	assert.Equal(t, "connection reset", board.Participants[3].Error)
	require.NotNil(t, board.Participants[0].Baseline)
	assert.Nil(t, board.Participants[2].Baseline)

	assert.False(t, snap.Conferences[1].Active)
	assert.Equal(t, 6, reader.calls)
}

func TestCollect_ConferenceFailureIsRecorded(t *testing.T) {
	reader, confs, baselines := fixture()
	reader.failing["board"] = true

	snap, err := Collect(context.Background(), reader, baselines, freeze.PolicyBothStall, confs, 0)
	require.NoError(t, err)
	assert.Equal(t, "timeout", snap.Conferences[0].Error)
}

func TestWrite_Table(t *testing.T) {
	reader, confs, baselines := fixture()
	snap, err := Collect(context.Background(), reader, baselines, freeze.PolicyBothStall, confs, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap, false))
	out := buf.String()

	assert.Contains(t, out, "Freeze policy: both_stall")
	assert.Contains(t, out, "Conference board: active, unlocked (will lock)")
	assert.Contains(t, out, "Conference lobby: inactive")
	assert.Contains(t, out, "connected_frozen")
	assert.Contains(t, out, "1/4 healthy")
}

func TestWrite_JSON(t *testing.T) {
	reader, confs, baselines := fixture()
	snap, err := Collect(context.Background(), reader, baselines, freeze.PolicyAnyStall, confs, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap, true))

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "any_stall", decoded.Policy)
	assert.Equal(t, "board", decoded.Conferences[0].Name)
	assert.Equal(t, uint64(100), *decoded.Conferences[0].Participants[0].Audio)
}
