package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LerianStudio/snyk-gc-projects/constant"
	libErr "github.com/LerianStudio/snyk-gc-projects/error"
	"github.com/LerianStudio/snyk-gc-projects/model"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names, also used as viper keys
const (
	FlagOrgID    = "org_id"
	FlagAPIToken = "api_token"
	FlagAge      = "age"
	FlagDelete   = "delete"
	FlagVerbose  = "verbose"
	FlagAPIURL   = "api_url"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterFlags declares the collector flags on fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagOrgID, "o", "", "Snyk organization ID (falls back to "+constant.EnvOrgID+")")
	fs.StringP(FlagAPIToken, "t", "", "Snyk API token (falls back to "+constant.EnvAPIToken+")")
	fs.IntP(FlagAge, "a", constant.DefaultAgeDays, "Set the age in days to be considered stale if lastTestedDate is older")
	fs.BoolP(FlagDelete, "d", false, "Delete stale projects")
	fs.BoolP(FlagVerbose, "v", false, "Print API calls")
	fs.String(FlagAPIURL, constant.DefaultAPIURL, "Snyk API host (falls back to "+constant.EnvAPIURL+")")
}

// Load resolves the configuration from parsed flags with environment fallback.
//
// Precedence, highest first:
//  1. Flags set on the command line
//  2. Environment variables (SNYK_ORG_ID, SNYK_API_TOKEN, SNYK_API_URL)
//  3. Flag defaults
func Load(fs *pflag.FlagSet) (model.Config, error) {
	v := viper.New()

	if err := v.BindPFlags(fs); err != nil {
		return model.Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	envBindings := map[string]string{
		FlagOrgID:    constant.EnvOrgID,
		FlagAPIToken: constant.EnvAPIToken,
		FlagAPIURL:   constant.EnvAPIURL,
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return model.Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := model.Config{
		OrgID:    strings.TrimSpace(v.GetString(FlagOrgID)),
		APIToken: strings.TrimSpace(v.GetString(FlagAPIToken)),
		AgeDays:  v.GetInt(FlagAge),
		APIURL:   strings.TrimSuffix(strings.TrimSpace(v.GetString(FlagAPIURL)), "/"),
		Delete:   v.GetBool(FlagDelete),
		Verbose:  v.GetBool(FlagVerbose),
	}

	if err := Validate(cfg); err != nil {
		return model.Config{}, err
	}

	return cfg, nil
}

// Validate checks cfg and returns a *ConfigurationError for the first
// violated rule. Rules are reported in the order age, token, org, URL.
func Validate(cfg model.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}

	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.StructField()] = true
	}

	switch {
	case failed["AgeDays"]:
		return &libErr.ConfigurationError{
			Code:    constant.ErrInvalidAge,
			Field:   FlagAge,
			Message: fmt.Sprintf("Project age must be greater than one day, %d given", cfg.AgeDays),
		}
	case failed["APIToken"]:
		return &libErr.ConfigurationError{
			Code:    constant.ErrMissingAPIToken,
			Field:   FlagAPIToken,
			Message: "Snyk API Token is not set. Either supply at the command-line or set the " + constant.EnvAPIToken + " environment variable",
		}
	case failed["OrgID"]:
		return &libErr.ConfigurationError{
			Code:    constant.ErrMissingOrgID,
			Field:   FlagOrgID,
			Message: "Snyk Org ID is not set. Either supply at the command-line or set the " + constant.EnvOrgID + " environment variable",
		}
	case failed["APIURL"]:
		return &libErr.ConfigurationError{
			Code:    constant.ErrInvalidAPIURL,
			Field:   FlagAPIURL,
			Message: fmt.Sprintf("Snyk API URL %q is not an absolute URL", cfg.APIURL),
		}
	}

	return &libErr.ConfigurationError{
		Code:    constant.ErrInvalidFlagValue,
		Field:   fieldErrs[0].Field(),
		Message: fieldErrs[0].Error(),
	}
}
