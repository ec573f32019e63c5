package whatsapp

import (
	"context"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"turnera/internal/dialog"
)

// Client wraps a whatsmeow multidevice client with a sqlite session store.
type Client struct {
	WAClient  *whatsmeow.Client
	handler   *Handler
	container *sqlstore.Container
}

func NewClient(handler *Handler, dbPath string) (*Client, error) {
	dbLog := waLog.Stdout("Database", "INFO", true)
	clientLog := waLog.Stdout("Client", "INFO", true)

	container, err := sqlstore.New(context.Background(), "sqlite3", "file:"+dbPath+"?_foreign_keys=on", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create session database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	waClient := whatsmeow.NewClient(deviceStore, clientLog)

	c := &Client{
		WAClient:  waClient,
		handler:   handler,
		container: container,
	}

	if handler != nil {
		handler.setClient(waClient)
		waClient.AddEventHandler(handler.HandleEvent)
	}

	return c, nil
}

// Connect establishes the WhatsApp session. When no session exists yet it
// drives the QR pairing flow, blocking until pairing succeeds or times out.
func (c *Client) Connect(ctx context.Context) error {
	if c.WAClient.Store.ID != nil {
		return c.WAClient.Connect()
	}

	qrChan, err := c.WAClient.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get QR channel: %w", err)
	}
	if err := c.WAClient.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			DisplayQR(evt.Code)
		case "success":
			fmt.Println("WhatsApp paired successfully")
			return nil
		case "timeout":
			return fmt.Errorf("QR pairing timed out")
		}
	}
	return nil
}

// SendText delivers a reply to a phone number. Replies are clipped to the
// transport cap before sending; delivery is best-effort.
func (c *Client) SendText(ctx context.Context, phone, text string) error {
	jid := types.NewJID(phone, types.DefaultUserServer)
	_, err := c.WAClient.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(dialog.Truncate(text)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", phone, err)
	}
	return nil
}

func (c *Client) IsLoggedIn() bool {
	return c.WAClient.Store.ID != nil
}

func (c *Client) Disconnect() {
	c.WAClient.Disconnect()
}
