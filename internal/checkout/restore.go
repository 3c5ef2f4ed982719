package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"hairline/internal/backend"
)

// Restore rebuilds the wizard from its durable fields. The stage is capped at
// the first stage whose data is missing, so a partially written fallback never
// skips a step.
func Restore(ctx context.Context, sessionID string, store FieldStore, gw Gateway) (*Wizard, error) {
	w := New(sessionID, store, gw)

	fields := make(map[string]string)
	for _, k := range []string{keyStage, keyPlanID, keyCycle, keyProducts, keyIdentity, keyAddress, keyMethod, keyCouponCode, keyCouponDiscount} {
		v, ok, err := store.Get(ctx, sessionID, k)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", k, err)
		}
		if ok && v != "" {
			fields[k] = v
		}
	}

	reached := StagePlan
	if fields[keyPlanID] != "" && fields[keyCycle] != "" && fields[keyProducts] != "" {
		w.state.Selection = &PlanSelection{
			PlanID:     fields[keyPlanID],
			Cycle:      backend.BillingCycle(fields[keyCycle]),
			ProductIDs: strings.Split(fields[keyProducts], ","),
		}
		reached = StageIdentity

		var id Identity
		if raw, ok := fields[keyIdentity]; ok && json.Unmarshal([]byte(raw), &id) == nil {
			w.state.Identity = &id
			reached = StageAddress

			var addr backend.Address
			if raw, ok := fields[keyAddress]; ok && json.Unmarshal([]byte(raw), &addr) == nil {
				w.state.Address = &addr
				reached = StagePayment
				w.state.Method = backend.PaymentMethod(fields[keyMethod])
			}
		}

		if code := fields[keyCouponCode]; code != "" {
			discount, err := strconv.ParseInt(fields[keyCouponDiscount], 10, 64)
			if err == nil {
				w.state.Coupon = &Coupon{Code: code, DiscountMinor: discount}
			}
		}
	}

	stored := Stage(fields[keyStage])
	if stored == "" || stored == StageCompleted || stored.rank() > reached.rank() {
		stored = reached
	}
	w.state.Stage = stored
	return w, nil
}
