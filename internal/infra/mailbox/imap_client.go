package mailbox

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-sasl"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Client é o gateway IMAP da caixa de entrada de leads. Cada operação abre
// uma sessão própria — o volume é baixo e sessão curta não sofre com
// timeout de servidor.
type Client struct {
	Addr     string // host:porta (TLS implícito, 993)
	Username string
	Password string
	Mailbox  string
}

func NewClient(addr, username, password, mailbox string) *Client {
	if mailbox == "" {
		mailbox = "INBOX"
	}
	return &Client{
		Addr:     addr,
		Username: username,
		Password: password,
		Mailbox:  mailbox,
	}
}

func (c *Client) connect() (*imapclient.Client, error) {
	cli, err := imapclient.DialTLS(c.Addr, nil)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no IMAP %s: %w", c.Addr, err)
	}
	if err := cli.Authenticate(sasl.NewPlainClient("", c.Username, c.Password)); err != nil {
		cli.Close()
		return nil, fmt.Errorf("falha na autenticação IMAP: %w", err)
	}
	if _, err := cli.Select(c.Mailbox, nil).Wait(); err != nil {
		cli.Close()
		return nil, fmt.Errorf("falha ao abrir mailbox %s: %w", c.Mailbox, err)
	}
	return cli, nil
}

func (c *Client) close(cli *imapclient.Client) {
	if err := cli.Logout().Wait(); err != nil {
		log.Printf("⚠️ IMAP: logout falhou: %v", err)
	}
	cli.Close()
}

// ListCandidates devolve os UIDs das mensagens não lidas, das mais antigas
// para as mais novas, limitado ao teto por run.
func (c *Client) ListCandidates(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cli, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer c.close(cli)

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	data, err := cli.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("falha na busca de não lidas: %w", err)
	}

	uids := data.AllUIDs()
	if limit > 0 && len(uids) > limit {
		uids = uids[:limit]
	}

	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}
	return ids, nil
}

// FetchContent busca o conteúdo completo de uma mensagem pelo UID. Corpo
// vazio é erro de transporte — o processador decide o que fazer.
func (c *Client) FetchContent(ctx context.Context, messageID string) (*entity.InboundMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uid, err := parseUID(messageID)
	if err != nil {
		return nil, err
	}

	cli, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer c.close(cli)

	bodySection := &imap.FetchItemBodySection{}
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	messages, err := cli.Fetch(imap.UIDSetNum(uid), fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("falha no fetch da mensagem %s: %w", messageID, err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("mensagem %s não encontrada na mailbox", messageID)
	}

	buf := messages[0]
	raw := buf.FindBodySection(bodySection)
	if len(raw) == 0 {
		return nil, fmt.Errorf("mensagem %s veio sem corpo", messageID)
	}

	msg := &entity.InboundMessage{ID: messageID}
	if env := buf.Envelope; env != nil {
		msg.Subject = env.Subject
		msg.Date = env.Date
		msg.MessageIDHeader = env.MessageID
		if len(env.From) > 0 {
			msg.From = env.From[0].Addr()
		}
		if len(env.To) > 0 {
			msg.To = env.To[0].Addr()
		}
	}

	msg.Text, msg.HTML = splitParts(raw)
	return msg, nil
}

// Acknowledge marca a mensagem como lida (\Seen), tirando ela do polling.
func (c *Client) Acknowledge(ctx context.Context, messageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	uid, err := parseUID(messageID)
	if err != nil {
		return err
	}

	cli, err := c.connect()
	if err != nil {
		return err
	}
	defer c.close(cli)

	storeFlags := &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}
	if err := cli.Store(imap.UIDSetNum(uid), storeFlags, nil).Close(); err != nil {
		return fmt.Errorf("falha ao marcar %s como lida: %w", messageID, err)
	}
	return nil
}

func parseUID(messageID string) (imap.UID, error) {
	n, err := strconv.ParseUint(messageID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("identificador de mensagem inválido %q: %w", messageID, err)
	}
	return imap.UID(n), nil
}
