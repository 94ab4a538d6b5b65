// Package model defines the data structures for mcuwatch's configuration, bridge snapshots, and persisted baselines.
package model

import "time"

type Config struct {
	MCU         MCUConfig          `yaml:"mcu" validate:"required"`
	Watchdog    WatchdogConfig     `yaml:"watchdog"`
	Logging     LoggingConfig      `yaml:"logging"`
	Notify      NotifyConfig       `yaml:"notify"`
	Conferences []ConferenceConfig `yaml:"conferences" validate:"required,min=1,unique=Name,dive"`
}

type MCUConfig struct {
	URL                string `yaml:"url" validate:"required,url"`
	Username           string `yaml:"username" validate:"required"`
	Password           string `yaml:"password"`
	APIVersion         string `yaml:"api_version" validate:"omitempty,oneof=2.8"`
	TimeoutSec         int    `yaml:"timeout_sec" validate:"gte=0"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

type WatchdogConfig struct {
	SettleDelaySec *int   `yaml:"settle_delay_sec" validate:"omitempty,gte=0"`
	FreezePolicy   string `yaml:"freeze_policy" validate:"omitempty,oneof=both_stall any_stall"`
	StateDir       string `yaml:"state_dir"`
	StateBackend   string `yaml:"state_backend" validate:"omitempty,oneof=yaml badger"`
	LockFile       string `yaml:"lock_file"`
}

// SettleDelay is the pause after a reconnect. An explicit 0 skips it.
func (w WatchdogConfig) SettleDelay() time.Duration {
	return seconds(w.SettleDelaySec)
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Dir   string `yaml:"dir"`
}

type NotifyConfig struct {
	CooldownSec *int        `yaml:"cooldown_sec" validate:"omitempty,gte=0"`
	Desktop     bool        `yaml:"desktop"`
	Email       EmailConfig `yaml:"email"`
}

// Cooldown is the minimum spacing of operator notifications. An explicit 0
// forwards every event.
func (n NotifyConfig) Cooldown() time.Duration {
	return seconds(n.CooldownSec)
}

func seconds(v *int) time.Duration {
	if v == nil {
		return 0
	}
	return time.Duration(*v) * time.Second
}

type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host" validate:"required_if=Enabled true"`
	Port     int      `yaml:"port" validate:"gte=0,lte=65535"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from" validate:"required_if=Enabled true"`
	To       []string `yaml:"to" validate:"required_if=Enabled true,dive,email"`
	Subject  string   `yaml:"subject"`
}

// ConferenceConfig is one conference the watchdog keeps in shape.
// Participants are processed in the order listed.
type ConferenceConfig struct {
	Name         string              `yaml:"name" validate:"required"`
	Locked       bool                `yaml:"locked"`
	Participants []ParticipantConfig `yaml:"participants" validate:"unique=Name,dive"`
}

type ParticipantConfig struct {
	Name        string `yaml:"name" validate:"required"`
	Address     string `yaml:"address" validate:"required"`
	DisplayName string `yaml:"display_name"`
	LayoutIndex int    `yaml:"layout_index" validate:"gte=0"`
}

// DisplayNameOrName returns the configured display name, falling back to the participant name.
func (p ParticipantConfig) DisplayNameOrName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}
