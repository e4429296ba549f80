package codec

import (
	"signally/internal/docstore"
	"signally/internal/models"
)

func DecodeSignal(doc docstore.Document, id string) (*models.Signal, error) {
	if err := checkRequired(doc, requiredSignalFields); err != nil {
		return nil, err
	}
	return &models.Signal{
		ID:               id,
		Type:             getString(doc, "type"),
		Symbol:           getString(doc, "symbol"),
		SignalDate:       getTime(doc, "signalDate"),
		SignalTime:       getTime(doc, "signalTime"),
		SignalDatetime:   getTime(doc, "signalDatetime"),
		Entry:            getDecimal(doc, "entry"),
		StopLoss:         getDecimal(doc, "stopLoss"),
		TakeProfit1:      getDecimal(doc, "takeProfit1"),
		TakeProfit2:      getDecimalPtr(doc, "takeProfit2"),
		Comment:          getString(doc, "comment"),
		IsActive:         getBool(doc, "isActive"),
		IsFree:           getBool(doc, "isFree"),
		TimestampCreated: getTime(doc, "timestampCreated"),
		TimestampUpdated: getTime(doc, "timestampUpdated"),
	}, nil
}

func EncodeSignal(s models.Signal) docstore.Document {
	doc := docstore.Document{
		"type":        s.Type,
		"symbol":      s.Symbol,
		"entry":       s.Entry.String(),
		"stopLoss":    s.StopLoss.String(),
		"takeProfit1": s.TakeProfit1.String(),
		"comment":     s.Comment,
		"isActive":    s.IsActive,
		"isFree":      s.IsFree,
	}
	if s.TakeProfit2 != nil {
		doc["takeProfit2"] = s.TakeProfit2.String()
	}
	putTime(doc, "signalDate", s.SignalDate)
	putTime(doc, "signalTime", s.SignalTime)
	putTime(doc, "signalDatetime", s.SignalDatetime)
	putTime(doc, "timestampCreated", s.TimestampCreated)
	putTime(doc, "timestampUpdated", s.TimestampUpdated)
	return doc
}

func DecodeAnnouncement(doc docstore.Document, id string) (*models.Announcement, error) {
	if err := checkRequired(doc, requiredAnnouncementFields); err != nil {
		return nil, err
	}
	return &models.Announcement{
		ID:               id,
		Title:            getString(doc, "title"),
		Description:      getString(doc, "description"),
		Link:             getString(doc, "link"),
		ImageURL:         getString(doc, "imageUrl"),
		TimestampCreated: getTime(doc, "timestampCreated"),
		TimestampUpdated: getTime(doc, "timestampUpdated"),
	}, nil
}

func EncodeAnnouncement(a models.Announcement) docstore.Document {
	doc := docstore.Document{
		"title":       a.Title,
		"description": a.Description,
		"link":        a.Link,
		"imageUrl":    a.ImageURL,
	}
	putTime(doc, "timestampCreated", a.TimestampCreated)
	putTime(doc, "timestampUpdated", a.TimestampUpdated)
	return doc
}

func DecodeAuthUser(doc docstore.Document, id string) (*models.AuthUser, error) {
	if err := checkRequired(doc, requiredAuthUserFields); err != nil {
		return nil, err
	}
	return &models.AuthUser{
		ID:                    id,
		UID:                   getString(doc, "uid"),
		Email:                 getString(doc, "email"),
		FirstName:             getString(doc, "firstName"),
		LastName:              getString(doc, "lastName"),
		Name:                  getString(doc, "name"),
		ProfileImageURL:       getString(doc, "profileImageUrl"),
		AppVersion:            getString(doc, "appVersion"),
		AppBuildNumber:        getInt(doc, "appBuildNumber"),
		IsActive:              getBool(doc, "isActive"),
		IsNotificationEnabled: getBool(doc, "isNotificationEnabled"),
		Sub: models.Subscription{
			IsActive:               getBool(doc, "subIsActive"),
			IsLifetime:             getBool(doc, "subIsLifetime"),
			IsSandbox:              getBool(doc, "subIsSandbox"),
			WillRenew:              getBool(doc, "subWillRenew"),
			ProductIdentifier:      getString(doc, "subProductIdentifier"),
			PeriodType:             getString(doc, "subPeriodType"),
			LatestPurchaseDate:     getTime(doc, "subLatestPurchaseDate"),
			OriginalPurchaseDate:   getTime(doc, "subOriginalPurchaseDate"),
			ExpirationDate:         getTime(doc, "subExpirationDate"),
			UnsubscribeDetectedAt:  getTime(doc, "subUnsubscribeDetectedAt"),
			BillingIssueDetectedAt: getTime(doc, "subBillingIssueDetectedAt"),
		},
		TimestampCreated:   getTime(doc, "timestampCreated"),
		TimestampLastLogin: getTime(doc, "timestampLastLogin"),
		TimestampUpdated:   getTime(doc, "timestampUpdated"),
	}, nil
}

func EncodeAuthUser(u models.AuthUser) docstore.Document {
	doc := docstore.Document{
		"uid":                   u.UID,
		"email":                 u.Email,
		"firstName":             u.FirstName,
		"lastName":              u.LastName,
		"name":                  u.Name,
		"profileImageUrl":       u.ProfileImageURL,
		"appVersion":            u.AppVersion,
		"appBuildNumber":        u.AppBuildNumber,
		"isActive":              u.IsActive,
		"isNotificationEnabled": u.IsNotificationEnabled,
		"subIsActive":           u.Sub.IsActive,
		"subIsLifetime":         u.Sub.IsLifetime,
		"subIsSandbox":          u.Sub.IsSandbox,
		"subWillRenew":          u.Sub.WillRenew,
		"subProductIdentifier":  u.Sub.ProductIdentifier,
		"subPeriodType":         u.Sub.PeriodType,
	}
	putTime(doc, "subLatestPurchaseDate", u.Sub.LatestPurchaseDate)
	putTime(doc, "subOriginalPurchaseDate", u.Sub.OriginalPurchaseDate)
	putTime(doc, "subExpirationDate", u.Sub.ExpirationDate)
	putTime(doc, "subUnsubscribeDetectedAt", u.Sub.UnsubscribeDetectedAt)
	putTime(doc, "subBillingIssueDetectedAt", u.Sub.BillingIssueDetectedAt)
	putTime(doc, "timestampCreated", u.TimestampCreated)
	putTime(doc, "timestampLastLogin", u.TimestampLastLogin)
	putTime(doc, "timestampUpdated", u.TimestampUpdated)
	return doc
}

func DecodeNotification(doc docstore.Document, id string) (*models.Notification, error) {
	if err := checkRequired(doc, requiredNotificationFields); err != nil {
		return nil, err
	}
	return &models.Notification{
		ID:               id,
		Title:            getString(doc, "title"),
		Body:             getString(doc, "body"),
		TimestampCreated: getTime(doc, "timestampCreated"),
	}, nil
}

func EncodeNotification(n models.Notification) docstore.Document {
	doc := docstore.Document{
		"title": n.Title,
		"body":  n.Body,
	}
	putTime(doc, "timestampCreated", n.TimestampCreated)
	return doc
}
