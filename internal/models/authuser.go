package models

import "time"

// Subscription is the billing sub-record carried on every auth user.
type Subscription struct {
	IsActive          bool   `json:"subIsActive"`
	IsLifetime        bool   `json:"subIsLifetime"`
	IsSandbox         bool   `json:"subIsSandbox"`
	WillRenew         bool   `json:"subWillRenew"`
	ProductIdentifier string `json:"subProductIdentifier"`
	PeriodType        string `json:"subPeriodType"`

	LatestPurchaseDate     *time.Time `json:"subLatestPurchaseDate"`
	OriginalPurchaseDate   *time.Time `json:"subOriginalPurchaseDate"`
	ExpirationDate         *time.Time `json:"subExpirationDate"`
	UnsubscribeDetectedAt  *time.Time `json:"subUnsubscribeDetectedAt"`
	BillingIssueDetectedAt *time.Time `json:"subBillingIssueDetectedAt"`
}

// AuthUser mirrors an identity-provider account. Read-mostly from the admin
// surface; the one permitted mutation is toggling Sub.IsLifetime.
type AuthUser struct {
	ID              string `json:"id"`
	UID             string `json:"uid"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl"`
	AppVersion      string `json:"appVersion"`
	AppBuildNumber  int    `json:"appBuildNumber"`

	IsActive              bool `json:"isActive"`
	IsNotificationEnabled bool `json:"isNotificationEnabled"`

	Sub Subscription `json:"sub"`

	TimestampCreated   *time.Time `json:"timestampCreated"`
	TimestampLastLogin *time.Time `json:"timestampLastLogin"`
	TimestampUpdated   *time.Time `json:"timestampUpdated"`
}
