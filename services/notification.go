package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/jpk1234556/machacoshostels/db"
)

// NotificationService delivers push notifications to owners' devices via
// Firebase Cloud Messaging. The client is optional: when Firebase is not
// configured the service degrades to a no-op so approval decisions are never
// blocked on messaging.
type NotificationService struct {
	PG     *sql.DB
	client *messaging.Client
}

func NewNotificationService(pg *sql.DB) (*NotificationService, error) {
	service := &NotificationService{PG: pg}

	credsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credsPath == "" {
		credsPath = "firebase-service-account-key.json"
	}

	opt := option.WithCredentialsFile(credsPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("Firebase app not initialized: %v (push notifications disabled)", err)
		return service, nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("Firebase messaging client not initialized: %v (push notifications disabled)", err)
		return service, nil
	}

	service.client = client
	log.Println("Notification service: Firebase messaging initialized")
	return service, nil
}

// SendApprovalDecision notifies a user that an admin decided on their
// account. Errors are logged, never propagated - delivery is best effort.
func (s *NotificationService) SendApprovalDecision(userID string, status db.ApprovalStatus) {
	if s.client == nil {
		return
	}

	var fcmToken string
	err := s.PG.QueryRow(
		"SELECT fcm_token FROM profiles WHERE id = $1 AND fcm_token IS NOT NULL AND fcm_token != ''",
		userID,
	).Scan(&fcmToken)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Error fetching FCM token for user %s: %v", userID, err)
		}
		return
	}

	title := "Account update"
	body := "Your account status has changed."
	switch status {
	case db.ApprovalApproved:
		title = "Account approved"
		body = "Your account has been approved. You can now manage your properties."
	case db.ApprovalRejected:
		title = "Account access denied"
		body = "Your account application was not approved. Contact support for details."
	}

	message := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type":            "approval_decision",
			"approval_status": string(status),
		},
	}

	response, err := s.client.Send(context.Background(), message)
	if err != nil {
		log.Printf("Failed to send approval notification to user %s: %v", userID, err)
		return
	}
	log.Printf("Sent approval notification to user %s: %s", userID, response)
}

// SendMaintenanceAlert notifies a property owner about a newly reported
// maintenance request on one of their units.
func (s *NotificationService) SendMaintenanceAlert(ownerID string, request *db.MaintenanceRequest) {
	if s.client == nil {
		return
	}

	var fcmToken string
	err := s.PG.QueryRow(
		"SELECT fcm_token FROM profiles WHERE id = $1 AND fcm_token IS NOT NULL AND fcm_token != ''",
		ownerID,
	).Scan(&fcmToken)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Error fetching FCM token for owner %s: %v", ownerID, err)
		}
		return
	}

	message := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: "New maintenance request",
			Body:  fmt.Sprintf("%s (%s priority)", request.Title, request.Priority),
		},
		Data: map[string]string{
			"type":       "maintenance_request",
			"request_id": request.ID,
			"unit_id":    request.UnitID,
		},
	}

	if _, err := s.client.Send(context.Background(), message); err != nil {
		log.Printf("Failed to send maintenance notification to owner %s: %v", ownerID, err)
	}
}
