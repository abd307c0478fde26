package model

import "time"

// Stylist is a service provider with an independent daily agenda.
type Stylist struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

// Service is a bookable offering. Duration is a free-text string
// ("1 hora 30 mins") parsed by the availability package; Price is
// rounded to 2 decimal places on write.
type Service struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Price     float64   `json:"precio"`
	Duration  string    `json:"duracion"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

// Client reputation levels, degraded by late cancellations.
const (
	ReputationGood    = "buena"
	ReputationRegular = "regular"
	ReputationBad     = "mala"
)

// Client is a registered booking identity.
type Client struct {
	ID         string    `json:"id"`
	Name       string    `json:"nombre"`
	Phone      string    `json:"telefono,omitempty"`
	Reputation string    `json:"reputacion"`
	VoucherID  string    `json:"bonoActivoId,omitempty"`
	CreatedAt  time.Time `json:"creadoEn"`
	UpdatedAt  time.Time `json:"actualizadoEn"`
}

// DegradeReputation returns the reputation after a late cancellation.
// buena drops to regular, regular drops to mala, mala stays.
func DegradeReputation(current string) string {
	switch current {
	case ReputationGood:
		return ReputationRegular
	case ReputationRegular:
		return ReputationBad
	}
	return current
}

// Voucher is a prepaid session pack a client may pay with.
type Voucher struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clienteId"`
	Sessions  int       `json:"sesiones"`
	Remaining int       `json:"restantes"`
	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}
