package seasondomain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

var validate = validator.New()

// ValidateSeasonInfo checks slot counts against the team count and the start
// month range. Tiebreak keys are not checked; the sorter skips unknown ones.
func ValidateSeasonInfo(info standingsdomain.SeasonInfo) error {
	err := validate.Struct(info)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate season info: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid season info: %s: %w", strings.Join(msgs, "; "), err)
}
