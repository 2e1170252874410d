package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/util"
	"gopkg.in/yaml.v3"

	_ "time/tzdata"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("rerline", func(fl validator.FieldLevel) bool {
		return ctdf.IsRERLine(fl.Field().String())
	})
	v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})

	return v
}

// Overrides carries command line values; zero values leave the loaded setting untouched
type Overrides struct {
	BinSeconds             int
	LeadTimeHorizonSeconds int
	RawDirectory           string
	DailyDirectory         string
}

// Load resolves settings from defaults, an optional YAML file, the environment and overrides.
// requireFeed enforces the PRIM credentials needed to poll.
func Load(file string, overrides Overrides, requireFeed bool) (Settings, error) {
	settings := Defaults()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return Settings{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("parsing config file %s: %w", file, err)
		}
	}

	applyEnvironment(&settings, util.GetEnvironmentVariables())
	applyOverrides(&settings, overrides)

	if err := settings.validate(requireFeed); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func applyEnvironment(settings *Settings, env map[string]string) {
	if value := strings.TrimSpace(env["PRIM_API_KEY"]); value != "" {
		settings.PrimAPIKey = value
	}
	if value := strings.TrimSpace(env["IDFM_ESTIMATED_TIMETABLE_URL"]); value != "" {
		settings.EstimatedTimetableURL = value
	}
	if value := strings.TrimSpace(env["RERDELAY_TIMEZONE"]); value != "" {
		settings.Timezone = value
	}
	if value := strings.TrimSpace(env["RERDELAY_SERVICE_DAY_CUTOVER"]); value != "" {
		settings.ServiceDayCutover = value
	}
	if value := strings.TrimSpace(env["RERDELAY_TIME_PRECISION"]); value != "" {
		settings.TimePrecision = value
	}
	if value := strings.TrimSpace(env["RERDELAY_RAW_DIR"]); value != "" {
		settings.RawDirectory = value
	}
	if value := strings.TrimSpace(env["RERDELAY_DAILY_DIR"]); value != "" {
		settings.DailyDirectory = value
	}

	if n, ok := util.EnvironmentInt(env, "RERDELAY_LEAD_HORIZON"); ok {
		settings.LeadTimeHorizonSeconds = n
	}
	if n, ok := util.EnvironmentInt(env, "RERDELAY_BIN_SECONDS"); ok {
		settings.BinSeconds = n
	}
	if n, ok := util.EnvironmentInt(env, "RERDELAY_FETCH_TIMEOUT"); ok {
		settings.FetchTimeoutSeconds = n
	}

	if lines := util.EnvironmentList(env, "RERDELAY_LINES"); len(lines) > 0 {
		settings.Lines = lines
	}
}

func applyOverrides(settings *Settings, overrides Overrides) {
	if overrides.BinSeconds != 0 {
		settings.BinSeconds = overrides.BinSeconds
	}
	if overrides.LeadTimeHorizonSeconds != 0 {
		settings.LeadTimeHorizonSeconds = overrides.LeadTimeHorizonSeconds
	}
	if overrides.RawDirectory != "" {
		settings.RawDirectory = overrides.RawDirectory
	}
	if overrides.DailyDirectory != "" {
		settings.DailyDirectory = overrides.DailyDirectory
	}
}

func (s *Settings) validate(requireFeed bool) error {
	var err error
	if requireFeed {
		err = validate.Struct(s)
	} else {
		err = validate.StructExcept(s, "PrimAPIKey", "EstimatedTimetableURL")
	}
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("invalid configuration: %s", describe(validationErrors))
		}
		return err
	}

	location, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("invalid configuration: timezone %q: %w", s.Timezone, err)
	}
	s.location = location

	// already checked by the clocktime validation
	s.cutover, _ = time.Parse("15:04", s.ServiceDayCutover)

	var lines []string
	for _, line := range s.Lines {
		canonical, _ := ctdf.CanonicalLineCode(line)
		lines = append(lines, canonical)
	}
	s.Lines = util.RemoveDuplicateStrings(lines, nil)

	return nil
}

func describe(validationErrors validator.ValidationErrors) string {
	var parts []string
	for _, fieldError := range validationErrors {
		parts = append(parts, fmt.Sprintf("%s failed %q", fieldError.Namespace(), fieldError.Tag()))
	}
	return strings.Join(parts, ", ")
}
