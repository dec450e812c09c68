package view

import "github.com/magabrotheeeer/autopay/internal/models"

// Тексты карточки.
const (
	Title              = "Auto-Pay"
	ProcessingLabel    = "Processing..."
	ErrorFallback      = "We couldn't process your last Auto Pay. Update your payment method."
	PaymentFailedText  = "Last Auto Pay failed. Update your payment method."
	DisabledText       = "Turn on Auto Pay to never miss a payment again."
	notScheduled       = "Not scheduled"
	noMethodSelected   = "No method selected"
	nextDueDateDefault = "next due date"
)

// Project строит конфигурацию карточки только по записи, без баннера успеха.
func Project(state models.AutoPayRecord) models.CardView {
	v := models.CardView{
		Title:     Title,
		Status:    state.Status,
		IsLoading: state.IsLoading,
	}

	switch state.Status {
	case models.StatusDisabled:
		v.Description = DisabledText
		v.Badge = models.Badge{Text: "Currently inactive", Style: models.BadgeNeutral}
		v.Icon = models.IconNone
		v.PrimaryAction = action(models.ActionEnable, "Enable Auto-Pay", models.VariantAccent)
	case models.StatusEnabled:
		v.Description = "Next payment: " + models.Deref(state.NextPaymentDate, notScheduled) +
			" • " + models.Deref(state.PaymentMethod, noMethodSelected)
		v.Badge = models.Badge{Text: "Active", Style: models.BadgeSuccess}
		v.Icon = models.IconCheckCircle
		v.PrimaryAction = action(models.ActionManage, "Auto Pay Enabled", models.VariantAccent)
	case models.StatusPaused:
		if state.IsPausedForOneCycle {
			v.Description = "Paused for 1 cycle • Resumes after " + models.Deref(state.NextPaymentDate, nextDueDateDefault)
		} else {
			v.Description = "Paused • " + models.Deref(state.PaymentMethod, noMethodSelected)
		}
		v.Badge = models.Badge{Text: "Paused", Style: models.BadgeWarning}
		v.Icon = models.IconPause
		v.PrimaryAction = action(models.ActionResume, "Resume Auto-Pay", models.VariantAccent)
		v.SecondaryAction = ptr(action(models.ActionDisable, "Disable", models.VariantGhost))
	case models.StatusPaymentFailed:
		v.Description = PaymentFailedText
		v.Badge = models.Badge{Text: "Payment Failed", Style: models.BadgeDestructive}
		v.Icon = models.IconAlertCircle
		v.PrimaryAction = action(models.ActionFixPaymentMethod, "Fix Payment Method", models.VariantDestructive)
		v.SecondaryAction = ptr(action(models.ActionDisable, "Disable Auto-Pay", models.VariantGhost))
		v.PaymentFailedAlert = &models.Alert{Message: PaymentFailedText}
	default:
		v.Description = models.Deref(state.Error, ErrorFallback)
		v.Badge = models.Badge{Text: "Error", Style: models.BadgeDestructive}
		v.Icon = models.IconAlertCircle
		v.PrimaryAction = action(models.ActionFixPaymentMethod, "Fix Payment Method", models.VariantAccent)
		v.SecondaryAction = ptr(action(models.ActionDisable, "Disable Auto-Pay", models.VariantGhost))
	}

	if state.Error != nil && state.Status != models.StatusPaymentFailed {
		v.ErrorAlert = &models.Alert{Message: *state.Error, Dismissible: true}
	}

	if state.IsLoading {
		v.PrimaryAction.Label = ProcessingLabel
		v.PrimaryAction.Disabled = true
		if v.SecondaryAction != nil {
			v.SecondaryAction.Disabled = true
		}
	}
	return v
}

// Offers сообщает, предлагает ли карточка действие в данном состоянии.
func Offers(state models.AutoPayRecord, id models.ActionID) bool {
	v := Project(state)
	if v.PrimaryAction.ID == id {
		return true
	}
	if v.SecondaryAction != nil && v.SecondaryAction.ID == id {
		return true
	}
	return id == models.ActionClearError && v.ErrorAlert != nil
}

func action(id models.ActionID, label string, variant models.ActionVariant) models.Action {
	return models.Action{ID: id, Label: label, Variant: variant}
}

func ptr(a models.Action) *models.Action {
	return &a
}
