package models

import "time"

/************************************************
/**** MARK: SOURCE SCOPE ****/
/************************************************/
const SOURCE_SCOPE_GLOBAL = "GLOBAL"
const SOURCE_SCOPE_CLIENT = "CLIENT"

/************************************************
/**** MARK: SOURCE TYPE ****/
/************************************************/
const SOURCE_TYPE_RSS = "RSS"
const SOURCE_TYPE_URL = "URL"
const SOURCE_TYPE_OTHER = "OTHER"

/************************************************
/**** MARK: FETCH FREQUENCY ****/
/************************************************/
const FREQUENCY_DAILY = "daily"
const FREQUENCY_WEEKLY = "weekly"
const FREQUENCY_MONTHLY = "monthly"

// Source é uma fonte de conteúdo do radar (feed, portal, diário oficial...).
// Nunca é apagada fisicamente: desativa com is_active = false.
type Source struct {
	ID                   int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID             string     `gorm:"not null;index;unique_index:idx_sources_tenant_url" json:"tenant_id"`
	Scope                string     `gorm:"not null;default:'GLOBAL'" json:"scope"`
	ClientID             *int64     `gorm:"index" json:"client_id"`
	Name                 string     `gorm:"not null" json:"name" form:"name"`
	URL                  string     `gorm:"not null;unique_index:idx_sources_tenant_url" json:"url" form:"url"`
	Type                 string     `gorm:"not null;default:'RSS'" json:"type" form:"type"`
	Tags                 StringList `gorm:"type:text" json:"tags"`
	Categories           StringList `gorm:"type:text" json:"categories"`
	IncludeKeywords      StringList `gorm:"type:text" json:"include_keywords"`
	ExcludeKeywords      StringList `gorm:"type:text" json:"exclude_keywords"`
	MinContentLength     int        `gorm:"default:0" json:"min_content_length"`
	IsActive             bool       `gorm:"not null;default:true;index" json:"is_active"`
	FetchIntervalMinutes int        `gorm:"not null;default:1440" json:"fetch_interval_minutes"`
	LastFetchedAt        *time.Time `gorm:"index" json:"last_fetched_at"`
	LastAttemptAt        *time.Time `json:"last_attempt_at"`
	LastError            string     `gorm:"type:text" json:"last_error"`
	Fetching             bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt            *time.Time `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at"`
}

// FrequencyToMinutes converte o enum de frequência pro intervalo em minutos.
// Valor desconhecido cai em daily.
func FrequencyToMinutes(freq string) int {
	switch freq {
	case FREQUENCY_WEEKLY:
		return 10080
	case FREQUENCY_MONTHLY:
		return 43200
	default:
		return 1440
	}
}

func (s Source) MissingFields() string {
	if s.Name == "" {
		return "name"
	} else if s.URL == "" {
		return "url"
	}
	return ""
}

// DueAt devolve o próximo horário de coleta. Fonte nunca coletada está sempre vencida.
func (s Source) DueAt() time.Time {
	if s.LastFetchedAt == nil {
		return time.Time{}
	}
	return s.LastFetchedAt.Add(time.Duration(s.FetchIntervalMinutes) * time.Minute)
}
