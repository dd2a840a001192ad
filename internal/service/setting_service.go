package service

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
)

// Setting keys.
const (
	SettingDefaultPurgeDays   = "default_purge_days"
	SettingAutoEntryOnQR      = "auto_entry_on_qr"
	SettingAllowDangerReissue = "allow_danger_reissue"
)

// SettingService is a read-mostly key/value store with a bounded
// staleness window. Set invalidates the cache entry synchronously.
type SettingService interface {
	Get(key string, def interface{}) interface{}
	GetBool(key string, def bool) bool
	GetInt(key string, def int) int
	Set(key string, value interface{}, valueType, description string) error
	Invalidate(key string)
	GetAll() (map[string]interface{}, error)
}

type cachedSetting struct {
	value    interface{}
	cachedAt time.Time
}

type settingService struct {
	settingRepo repository.SettingRepository
	ttl         time.Duration
	mu          sync.RWMutex
	cache       map[string]cachedSetting
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingService{
		settingRepo: settingRepo,
		ttl:         time.Hour,
		cache:       make(map[string]cachedSetting),
	}
}

func (s *settingService) Get(key string, def interface{}) interface{} {
	s.mu.RLock()
	if entry, ok := s.cache[key]; ok && time.Since(entry.cachedAt) < s.ttl {
		s.mu.RUnlock()
		return entry.value
	}
	s.mu.RUnlock()

	setting, err := s.settingRepo.GetByKey(key)
	if err != nil {
		return def
	}

	value := typedValue(setting)
	s.mu.Lock()
	s.cache[key] = cachedSetting{value: value, cachedAt: time.Now()}
	s.mu.Unlock()
	return value
}

func (s *settingService) GetBool(key string, def bool) bool {
	if v, ok := s.Get(key, def).(bool); ok {
		return v
	}
	return def
}

func (s *settingService) GetInt(key string, def int) int {
	if v, ok := s.Get(key, def).(int); ok {
		return v
	}
	return def
}

func (s *settingService) Set(key string, value interface{}, valueType, description string) error {
	stored := ""
	switch valueType {
	case "json":
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		stored = string(data)
	case "boolean":
		stored = strconv.FormatBool(value == true)
	case "integer":
		switch v := value.(type) {
		case int:
			stored = strconv.Itoa(v)
		case float64:
			stored = strconv.Itoa(int(v))
		}
	default:
		if v, ok := value.(string); ok {
			stored = v
		}
	}

	err := s.settingRepo.Upsert(&model.Setting{
		Key:         key,
		Value:       stored,
		Type:        valueType,
		Description: description,
	})
	if err != nil {
		return err
	}
	s.Invalidate(key)
	return nil
}

func (s *settingService) Invalidate(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
}

func (s *settingService) GetAll() (map[string]interface{}, error) {
	settings, err := s.settingRepo.GetAll()
	if err != nil {
		return nil, err
	}
	all := make(map[string]interface{}, len(settings))
	for i := range settings {
		all[settings[i].Key] = typedValue(&settings[i])
	}
	return all, nil
}

func typedValue(setting *model.Setting) interface{} {
	switch setting.Type {
	case "boolean":
		v, err := strconv.ParseBool(setting.Value)
		if err != nil {
			return false
		}
		return v
	case "integer":
		v, err := strconv.Atoi(setting.Value)
		if err != nil {
			return 0
		}
		return v
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(setting.Value), &v); err != nil {
			return nil
		}
		return v
	default:
		return setting.Value
	}
}
