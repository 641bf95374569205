package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Resource type category labels used in free-resource reports. The "Altro"
// label is the fallback for any type code not present in the configuration.
const (
	LabelRooms      = "Aule/Stanze"
	LabelVehicles   = "Automezzi"
	LabelProjectors = "Proiettori"
	LabelOther      = "Altro"
)

// Config holds the full server configuration. It is loaded once at startup
// and injected into the services that need it; nothing reads the environment
// after process start.
type Config struct {
	Database      Database
	Calendars     Calendars
	ResourceTypes ResourceTypes
	API           API
}

// Database holds connection settings for the scheduling database.
type Database struct {
	// Driver selects the database/sql driver: "postgres" or "sqlite3".
	Driver string

	Host     string
	Port     int
	Name     string
	User     string
	Password string

	// DSN overrides the assembled connection string when set. Required for
	// the sqlite3 driver.
	DSN string

	// QueryTimeout bounds every query issued against the store.
	QueryTimeout time.Duration
}

// Calendars holds the allow-list of calendar codes included in aggregate
// booking queries. Order is preserved from the configuration.
type Calendars struct {
	Codes []string
}

// ResourceTypes maps the configured resource type codes to their categories.
type ResourceTypes struct {
	Rooms      string
	Vehicles   string
	Projectors string
}

// Label returns the human-readable category label for a resource type code.
// Unrecognized codes map to LabelOther.
func (rt ResourceTypes) Label(code string) string {
	switch code {
	case rt.Rooms:
		return LabelRooms
	case rt.Vehicles:
		return LabelVehicles
	case rt.Projectors:
		return LabelProjectors
	default:
		return LabelOther
	}
}

// API holds settings for the remote activity-management REST API.
type API struct {
	BaseURL  string
	Username string
	Password string
	Company  string
	Instance string

	OBCode         string
	ApplicationID  string
	TaskEntityName string
	TaskActionName string
	TaskBOName     string

	TaskTypes TaskTypes

	// Timeout bounds every HTTP request to the activity API.
	Timeout time.Duration
}

// TaskTypes maps resource type categories to the task type codes the
// activity API expects.
type TaskTypes struct {
	Rooms      string
	Vehicles   string
	Projectors string
}

// TaskTypeFor returns the task type code for a resource type code, or ""
// when the resource type has no configured task type.
func (c *Config) TaskTypeFor(resourceType string) string {
	switch resourceType {
	case c.ResourceTypes.Rooms:
		return c.API.TaskTypes.Rooms
	case c.ResourceTypes.Vehicles:
		return c.API.TaskTypes.Vehicles
	case c.ResourceTypes.Projectors:
		return c.API.TaskTypes.Projectors
	default:
		return ""
	}
}

// envBindings maps viper keys to the environment variables the server has
// historically been configured with.
var envBindings = map[string]string{
	"database.driver":        "DB_DRIVER",
	"database.host":          "DB_HOST",
	"database.port":          "DB_PORT",
	"database.name":          "DB_NAME",
	"database.user":          "DB_USER",
	"database.password":      "DB_PASSWORD",
	"database.dsn":           "DB_DSN",
	"database.query_timeout": "DB_QUERY_TIMEOUT",

	"calendars.codes": "CALENDAR_CODES",

	"resource_types.rooms":      "RESOURCE_TYPE_ROOMS",
	"resource_types.vehicles":   "RESOURCE_TYPE_VEHICLES",
	"resource_types.projectors": "RESOURCE_TYPE_PROJECTORS",

	"api.base_url":         "API_BASE_URL",
	"api.username":         "API_USERNAME",
	"api.password":         "API_PASSWORD",
	"api.company":          "API_COMPANY",
	"api.instance":         "API_INSTANCE",
	"api.ob_code":          "API_OB_CODE",
	"api.application_id":   "API_APPLICATION_ID",
	"api.task_entity_name": "API_TASK_ENTITY_NAME",
	"api.task_action_name": "API_TASK_ACTION_NAME",
	"api.task_bo_name":     "API_TASK_BO_NAME",
	"api.timeout":          "API_TIMEOUT",

	"api.task_types.rooms":      "TASK_TYPE_ROOMS",
	"api.task_types.vehicles":   "TASK_TYPE_VEHICLES",
	"api.task_types.projectors": "TASK_TYPE_PROJECTORS",
}

// Load reads configuration from the given file (optional, YAML) and the
// environment, applies defaults, and validates the parts every transport
// needs. API credentials are validated separately via Config.ValidateAPI
// because read-only deployments do not need them.
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.query_timeout", "10s")
	v.SetDefault("api.application_id", "00002")
	v.SetDefault("api.timeout", "30s")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Database: Database{
			Driver:       v.GetString("database.driver"),
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			Name:         v.GetString("database.name"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			DSN:          v.GetString("database.dsn"),
			QueryTimeout: v.GetDuration("database.query_timeout"),
		},
		Calendars: Calendars{
			Codes: splitCodes(v.GetString("calendars.codes")),
		},
		ResourceTypes: ResourceTypes{
			Rooms:      v.GetString("resource_types.rooms"),
			Vehicles:   v.GetString("resource_types.vehicles"),
			Projectors: v.GetString("resource_types.projectors"),
		},
		API: API{
			BaseURL:        v.GetString("api.base_url"),
			Username:       v.GetString("api.username"),
			Password:       v.GetString("api.password"),
			Company:        v.GetString("api.company"),
			Instance:       v.GetString("api.instance"),
			OBCode:         v.GetString("api.ob_code"),
			ApplicationID:  v.GetString("api.application_id"),
			TaskEntityName: v.GetString("api.task_entity_name"),
			TaskActionName: v.GetString("api.task_action_name"),
			TaskBOName:     v.GetString("api.task_bo_name"),
			Timeout:        v.GetDuration("api.timeout"),
			TaskTypes: TaskTypes{
				Rooms:      v.GetString("api.task_types.rooms"),
				Vehicles:   v.GetString("api.task_types.vehicles"),
				Projectors: v.GetString("api.task_types.projectors"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitCodes parses a comma-separated list, trimming whitespace and
// filtering out empty entries. A YAML config file may also provide the
// codes as a plain string; either way the allow-list order is preserved.
func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			codes = append(codes, p)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return codes
}

func (c *Config) validate() error {
	var missing []string

	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.DSN == "" {
			missing = append(missing, "DB_DSN")
		}
	case "postgres":
		if c.Database.DSN == "" {
			if c.Database.Host == "" {
				missing = append(missing, "DB_HOST")
			}
			if c.Database.Name == "" {
				missing = append(missing, "DB_NAME")
			}
			if c.Database.User == "" {
				missing = append(missing, "DB_USER")
			}
			if c.Database.Password == "" {
				missing = append(missing, "DB_PASSWORD")
			}
		}
	default:
		return fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite3)", c.Database.Driver)
	}

	if len(c.Calendars.Codes) == 0 {
		missing = append(missing, "CALENDAR_CODES")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateAPI checks the settings the activity write path needs. It is only
// called when write tools are enabled.
func (c *Config) ValidateAPI() error {
	required := map[string]string{
		"API_BASE_URL":             c.API.BaseURL,
		"API_USERNAME":             c.API.Username,
		"API_PASSWORD":             c.API.Password,
		"API_COMPANY":              c.API.Company,
		"API_INSTANCE":             c.API.Instance,
		"API_OB_CODE":              c.API.OBCode,
		"API_TASK_ENTITY_NAME":     c.API.TaskEntityName,
		"API_TASK_ACTION_NAME":     c.API.TaskActionName,
		"API_TASK_BO_NAME":         c.API.TaskBOName,
		"RESOURCE_TYPE_ROOMS":      c.ResourceTypes.Rooms,
		"RESOURCE_TYPE_VEHICLES":   c.ResourceTypes.Vehicles,
		"RESOURCE_TYPE_PROJECTORS": c.ResourceTypes.Projectors,
		"TASK_TYPE_ROOMS":          c.API.TaskTypes.Rooms,
		"TASK_TYPE_VEHICLES":       c.API.TaskTypes.Vehicles,
		"TASK_TYPE_PROJECTORS":     c.API.TaskTypes.Projectors,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required configuration for activity API: %s", strings.Join(missing, ", "))
	}
	return nil
}
