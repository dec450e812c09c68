package models

// BadgeStyle — вариант оформления бейджа статуса.
type BadgeStyle string

const (
	BadgeNeutral     BadgeStyle = "neutral"
	BadgeSuccess     BadgeStyle = "success"
	BadgeWarning     BadgeStyle = "warning"
	BadgeDestructive BadgeStyle = "destructive"
)

// Icon — иконка заголовка карточки.
type Icon string

const (
	IconNone        Icon = "none"
	IconCheckCircle Icon = "check-circle"
	IconPause       Icon = "pause"
	IconAlertCircle Icon = "alert-circle"
)

// ActionVariant — вариант оформления кнопки.
type ActionVariant string

const (
	VariantAccent      ActionVariant = "accent"
	VariantDestructive ActionVariant = "destructive"
	VariantGhost       ActionVariant = "ghost"
)

// ActionID — действие, которое кнопка карточки запускает на сервере.
type ActionID string

const (
	ActionEnable           ActionID = "enable"
	ActionManage           ActionID = "manage"
	ActionResume           ActionID = "resume"
	ActionDisable          ActionID = "disable"
	ActionFixPaymentMethod ActionID = "fix_payment_method"
	ActionClearError       ActionID = "clear_error"
)

// Badge — текст и стиль бейджа статуса.
type Badge struct {
	Text  string     `json:"text"`
	Style BadgeStyle `json:"style"`
}

// Action — кнопка карточки. Disabled выставлен, пока выполняется операция.
type Action struct {
	ID       ActionID      `json:"id"`
	Label    string        `json:"label"`
	Variant  ActionVariant `json:"variant"`
	Disabled bool          `json:"disabled"`
}

// Alert — сообщение на карточке. Dismissible означает наличие кнопки закрытия (clear_error).
type Alert struct {
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// CardView — полная конфигурация карточки Auto-Pay для отрисовки.
type CardView struct {
	Title              string        `json:"title"`
	Status             AutoPayStatus `json:"status"`
	Description        string        `json:"description"`
	Badge              Badge         `json:"badge"`
	Icon               Icon          `json:"icon"`
	PrimaryAction      Action        `json:"primary_action"`
	SecondaryAction    *Action       `json:"secondary_action,omitempty"`
	PaymentFailedAlert *Alert        `json:"payment_failed_alert,omitempty"`
	ErrorAlert         *Alert        `json:"error_alert,omitempty"`
	SuccessBanner      *string       `json:"success_banner,omitempty"`
	IsLoading          bool          `json:"is_loading"`
}
