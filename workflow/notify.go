package workflow

import (
	"fmt"
	"log"
	"net/url"

	"guevara/models"
)

// Notifier delivers the post-transition customer notification. It is
// best-effort: the engine never lets a notifier failure undo a transition.
type Notifier interface {
	Notify(order models.Order, link string) error
}

// LogNotifier is the default notifier. The gateway cannot open WhatsApp
// itself, so it logs the deep link; handlers also return the link to the
// browser, which opens it.
type LogNotifier struct{}

func (LogNotifier) Notify(order models.Order, link string) error {
	log.Printf("order %s: customer notification %s", order.OrderID, link)
	return nil
}

// AcceptanceMessage is the WhatsApp text sent when an order is accepted.
func AcceptanceMessage(order models.Order) string {
	return fmt.Sprintf(`مرحبًا %s
تم استلام طلبك في Guevara بنجاح وجارٍ الآن تجهيز الطلب
 رقم الطلب: %s
شكرًا لثقتك في Guevara `, order.ShippingName, order.ID)
}

// RejectionMessage is the WhatsApp text sent when an order is rejected. The
// reason line is included only when a reason was given.
func RejectionMessage(order models.Order, reason string) string {
	msg := fmt.Sprintf(`مرحبًا %s
نأسف لإبلاغك أن طلبك لدى Guevara (رقم %s) تم رفضه `, order.ShippingName, order.ID)
	if reason != "" {
		msg += fmt.Sprintf(`
السبب: %s`, reason)
	}
	msg += `
إذا رغبت في مزيد من المعلومات أو إعادة المحاولة، تواصل معنا وسنكون سعداء بالمساعدة.
شكرًا لتفهمك `
	return msg
}

// NotificationURL builds the WhatsApp deep link for a customer message.
func NotificationURL(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
}
