package am

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/version"
)

var validate = newValidator()

// newValidator reports fields by their config key names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration is valid for the running binary
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.Newf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return errors.Wrap(err, "invalid config")
	}

	return CheckVersion(c.Generate.RequireVersion, version.Get().Version)
}

// CheckVersion reports whether running satisfies constraint. An empty
// constraint and development builds always pass.
func CheckVersion(constraint, running string) error {
	build := version.Info{Version: running}
	if constraint == "" || build.IsDev() {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid generate.require_version %q", constraint)
	}

	v, err := build.Semver()
	if err != nil {
		return err
	}

	if !c.Check(v) {
		return errors.WithHint(
			errors.Newf("config requires schemagen %s, but running %s", constraint, running),
			"upgrade schemagen or relax generate.require_version")
	}
	return nil
}

// fieldError renders a validation failure under its dotted config key
func fieldError(fe validator.FieldError) string {
	key := fe.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", key, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s, got %v", key, fe.Tag(), fe.Value())
}
