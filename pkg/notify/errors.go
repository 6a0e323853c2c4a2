package notify

import notifyerrors "github.com/54Rakshit/mashery-export-xlsx/pkg/util/errors"

// Errors hit when sending the export notifications
var (
	ErrNotification       = notifyerrors.Newf(1701, "could not send notification via %s: %v")
	ErrNotificationData   = notifyerrors.Newf(1702, "error creating notification request: %v")
	ErrWebhookStatus      = notifyerrors.Newf(1703, "webhook %s answered with status %d")
	ErrSMTPBadAuthType    = notifyerrors.Newf(1704, "invalid smtp authType %s, check notify.smtp.authType")
	ErrSMTPNoRecipients   = notifyerrors.New(1705, "no recipients for the notification mail, check notify.smtp.to")
	ErrWorkbookUnreadable = notifyerrors.Newf(1706, "could not read the workbook %s: %v")
	ErrNotAWorkbook       = notifyerrors.Newf(1707, "%s holds %s, not a workbook")
)
