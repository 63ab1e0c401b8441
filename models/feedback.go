package models

import "time"

/************************************************
/**** MARK: FEEDBACK KIND ****/
/************************************************/
const FEEDBACK_RELEVANT = "relevant"
const FEEDBACK_IRRELEVANT = "irrelevant"
const FEEDBACK_WRONG_CLIENT = "wrong_client"

// FeedbackEvent é o feedback explícito do usuário sobre um item.
// Uma linha por (item, cliente); reenvio sobrescreve o kind.
// Client nulo = feedback global do tenant sobre o item.
type FeedbackEvent struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID  string     `gorm:"not null;index" json:"tenant_id"`
	ItemID    int64      `gorm:"not null;index" json:"item_id"`
	ClientID  *int64     `gorm:"index" json:"client_id"`
	Kind      string     `gorm:"not null;index" json:"kind"`
	CreatedAt *time.Time `gorm:"index" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func IsValidFeedbackKind(k string) bool {
	switch k {
	case FEEDBACK_RELEVANT, FEEDBACK_IRRELEVANT, FEEDBACK_WRONG_CLIENT:
		return true
	}
	return false
}
