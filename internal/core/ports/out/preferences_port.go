package out

import (
	"context"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
)

type PreferencesPort interface {
	// Load возвращает found=false, если пользователь ещё ничего не сохранял
	Load(ctx context.Context, userKey string) (prefs domain.ViewPreferences, found bool, err error)
	Save(ctx context.Context, userKey string, prefs domain.ViewPreferences) error
}
