package mail

// ReplyInput é tudo que a resposta automática precisa: o lead, o
// atendente sorteado e as referências de threading da mensagem original.
type ReplyInput struct {
	To             string
	ToName         string
	Subject        string
	RecipientName  string
	RecipientEmail string
	BookingURL     string
	InReplyTo      string // Message-ID da mensagem original, se conhecido
}

type ReplyEmailData struct {
	LeadName       string
	RecipientName  string
	RecipientEmail string
	BookingURL     string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
