package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	_ "github.com/lib/pq"
	"github.com/skip2/go-qrcode"
	"gopkg.in/gomail.v2"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

var (
	meowWhatsapp *whatsmeow.Client
	qrCodeSent   bool
	mu           sync.Mutex
)

// InitSender boots the WhatsApp client and the SMTP dialer used for approval
// notifications. When no WhatsApp session exists yet, the pairing QR code is
// rendered to a PNG and emailed to the admin so the server can be linked.
func InitSender() (*whatsmeow.Client, *gomail.Dialer, *string, error) {
	emailSender, err := getSender()
	if err != nil {
		return nil, nil, nil, err
	}

	emailPassword, err := getPassword()
	if err != nil {
		return nil, nil, nil, err
	}

	smtpHost, err := getHost()
	if err != nil {
		return nil, nil, nil, err
	}

	smtpPort, err := getSMTPPort()
	if err != nil {
		return nil, nil, nil, err
	}

	dialer := gomail.NewDialer(*smtpHost, smtpPort, *emailSender, *emailPassword)

	fmt.Println("SMTP initialized")

	meowAddress := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))

	container, err := sqlstore.New(context.Background(), "postgres", meowAddress, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open whatsapp session store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load whatsapp device: %w", err)
	}

	mClient := whatsmeow.NewClient(deviceStore, nil)
	meowWhatsapp = mClient

	if meowWhatsapp.Store.ID == nil {
		qrChan, _ := meowWhatsapp.GetQRChannel(context.Background())
		if err := meowWhatsapp.Connect(); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect whatsapp client: %w", err)
		}

		go func() {
			for evt := range qrChan {
				if evt.Event != "code" {
					continue
				}

				mu.Lock()
				if !qrCodeSent {
					fmt.Println("")
					fmt.Println("IMPORTANT no WhatsApp session was found !!")
					fmt.Println("Need admin to scan the QR code for the server to run properly!")
					fmt.Println("Loading...")

					if err := generateQRCode(evt.Code, "qrcode.png"); err != nil {
						fmt.Println("failed to generate login QR:", err)
						mu.Unlock()
						continue
					}

					if err := sendQRToEmail(dialer, *emailSender, "qrcode.png"); err != nil {
						fmt.Println("failed to email login QR:", err)
						mu.Unlock()
						continue
					}

					fmt.Println("QR code sent to admin email, waiting for scan....")
					qrCodeSent = true
				}
				mu.Unlock()
			}
		}()
	} else {
		if err := meowWhatsapp.Connect(); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect whatsapp client: %w", err)
		}
		fmt.Println("WhatsApp session restored")
	}

	return meowWhatsapp, dialer, emailSender, nil
}

func generateQRCode(data, filePath string) error {
	return qrcode.WriteFile(data, qrcode.Medium, 256, filePath)
}

func sendQRToEmail(dialer *gomail.Dialer, sender, filePath string) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = sender
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", sender)
	msg.SetHeader("To", adminEmail)
	msg.SetHeader("Subject", "WhatsApp login QR code")
	msg.SetBody("text/plain", "Scan the attached QR code with the association WhatsApp account to link the notification sender.")
	msg.Attach(filePath)

	return dialer.DialAndSend(msg)
}

func getSender() (*string, error) {
	sender := os.Getenv("EMAIL_SENDER")
	if sender == "" {
		return nil, fmt.Errorf("email sender invalid, value : %s", sender)
	}
	return &sender, nil
}

func getHost() (*string, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("smtp value invalid, value : %s", host)
	}
	return &host, nil
}

func getPassword() (*string, error) {
	pass := os.Getenv("EMAIL_SENDER_PASSWORD")
	if pass == "" {
		return nil, fmt.Errorf("email password invalid, value : %s", pass)
	}
	return &pass, nil
}

func getSMTPPort() (int, error) {
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		return 0, fmt.Errorf("smtp port invalid, value : %s", port)
	}

	var n int
	if _, err := fmt.Sscanf(port, "%d", &n); err != nil {
		return 0, fmt.Errorf("smtp port invalid, value : %s", port)
	}
	return n, nil
}
