package config

import (
	"fmt"

	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/logger"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ControlSettings are the player-facing choices persisted between sessions.
// Empty fields mean "use the prefab's value".
type ControlSettings struct {
	Turn   component.TurnPolicy   `yaml:"turn"`
	Camera component.CameraPolicy `yaml:"camera"`
}

const (
	settingsObject   = "settings"
	settingsProperty = "controls"
)

// SettingsManager loads and saves ControlSettings through gdata. A nil
// manager runs without persistence.
type SettingsManager struct {
	data     *gdata.Manager
	settings ControlSettings
}

// OpenStorage opens the per-user gdata store for appName.
func OpenStorage(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("config: open storage %s: %w", appName, err)
	}
	return m, nil
}

// NewSettingsManager loads stored settings, keeping defaults if nothing valid
// is stored.
func NewSettingsManager(data *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{data: data}
	if err := sm.Load(); err != nil {
		logger.L().Warn("settings: load failed, using defaults", "err", err)
	}
	return sm
}

func (sm *SettingsManager) Load() error {
	sm.settings = ControlSettings{}
	if sm.data == nil || !sm.data.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}
	raw, err := sm.data.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("config: load settings: %w", err)
	}
	var loaded ControlSettings
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("config: unmarshal settings: %w", err)
	}
	if !loaded.Turn.Valid() {
		loaded.Turn = ""
	}
	if !loaded.Camera.Valid() {
		loaded.Camera = ""
	}
	sm.settings = loaded
	return nil
}

func (sm *SettingsManager) Save() error {
	if sm.data == nil {
		return nil
	}
	raw, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("config: marshal settings: %w", err)
	}
	if err := sm.data.SaveObjectProp(settingsObject, settingsProperty, raw); err != nil {
		return fmt.Errorf("config: save settings: %w", err)
	}
	return nil
}

func (sm *SettingsManager) Settings() ControlSettings {
	return sm.settings
}

func (sm *SettingsManager) SetTurn(p component.TurnPolicy) {
	if p.Valid() {
		sm.settings.Turn = p
	}
}

func (sm *SettingsManager) SetCamera(p component.CameraPolicy) {
	if p.Valid() {
		sm.settings.Camera = p
	}
}
