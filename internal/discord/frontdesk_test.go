package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/MrWong99/paraiso/internal/catalog"
	"github.com/MrWong99/paraiso/internal/dialog"
	"github.com/MrWong99/paraiso/internal/discord/mock"
	"github.com/MrWong99/paraiso/internal/observe"
	"github.com/MrWong99/paraiso/internal/session"
)

func newDesk(t *testing.T, opts ...Option) (*FrontDesk, *mock.Sender, *session.Registry) {
	t.Helper()
	m, err := observe.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	cat := catalog.New(
		catalog.MustRule("saludo", []string{"hola"}, []string{"¡Hola! ¿En qué puedo ayudarte?"}, nil),
		catalog.MustRule("presentacion", []string{"quien eres"}, []string{"Soy el asistente del hotel."},
			&catalog.FollowupSpec{Kind: catalog.FollowupAskName}),
	)
	reg := session.NewRegistry(dialog.NewEngine(cat, dialog.WithMetrics(m)), session.WithMetrics(m))
	sender := &mock.Sender{}
	return NewFrontDesk(reg, sender, opts...), sender, reg
}

func message(channel, author, content string) *discordgo.Message {
	return &discordgo.Message{
		ChannelID: channel,
		Content:   content,
		Author:    &discordgo.User{ID: author},
	}
}

func TestFrontDesk_Replies(t *testing.T) {
	t.Parallel()
	desk, sender, reg := newDesk(t)
	ctx := context.Background()

	if err := desk.HandleMessage(ctx, message("c1", "u1", "hola")); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	want := []mock.SentMessage{{ChannelID: "c1", Content: "¡Hola! ¿En qué puedo ayudarte?"}}
	if diff := cmp.Diff(want, sender.Sent()); diff != "" {
		t.Errorf("sent (-want +got):\n%s", diff)
	}
	if reg.Len() != 1 {
		t.Errorf("sessions = %d, want 1", reg.Len())
	}
}

func TestFrontDesk_FollowupContinuesAcrossMessages(t *testing.T) {
	t.Parallel()
	desk, sender, _ := newDesk(t)
	ctx := context.Background()

	if err := desk.HandleMessage(ctx, message("c1", "u1", "quien eres")); err != nil {
		t.Fatal(err)
	}
	sender.Reset()
	if err := desk.HandleMessage(ctx, message("c1", "u1", "Lucía")); err != nil {
		t.Fatal(err)
	}
	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if sent[0].Content != "¡Mucho gusto, Lucía!" {
		t.Errorf("reply = %q", sent[0].Content)
	}
}

func TestFrontDesk_Ignored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		msg  *discordgo.Message
	}{
		{name: "nil message", msg: nil},
		{name: "no author", msg: &discordgo.Message{ChannelID: "c1", Content: "hola"}},
		{
			name: "bot author",
			msg:  &discordgo.Message{ChannelID: "c1", Content: "hola", Author: &discordgo.User{ID: "b", Bot: true}},
		},
		{name: "own message", opts: []Option{WithSelfID("me")}, msg: message("c1", "me", "hola")},
		{name: "blank", msg: message("c1", "u1", "   ")},
		{name: "other channel", opts: []Option{WithChannels("c2")}, msg: message("c1", "u1", "hola")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			desk, sender, reg := newDesk(t, tt.opts...)
			if err := desk.HandleMessage(context.Background(), tt.msg); err != nil {
				t.Fatalf("HandleMessage: %v", err)
			}
			if n := len(sender.Sent()); n != 0 {
				t.Errorf("sent %d messages, want 0", n)
			}
			if reg.Len() != 0 {
				t.Errorf("sessions = %d, want 0", reg.Len())
			}
		})
	}
}

func TestFrontDesk_SessionPerChannelAndAuthor(t *testing.T) {
	t.Parallel()
	desk, _, reg := newDesk(t)
	ctx := context.Background()

	for _, m := range []*discordgo.Message{
		message("c1", "u1", "quien eres"),
		message("c1", "u2", "hola"),
		message("c2", "u1", "hola"),
		message("c1", "u1", "hola"),
	} {
		if err := desk.HandleMessage(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	if reg.Len() != 3 {
		t.Fatalf("sessions = %d, want 3", reg.Len())
	}

	states := make(map[string]dialog.State)
	for _, info := range reg.List() {
		states[info.Key] = info.State
	}
	// u1 in c1 answered the name prompt with "hola", which is taken as the name.
	want := map[string]dialog.State{
		sessionKey("c1", "u1"): dialog.StateIdle,
		sessionKey("c1", "u2"): dialog.StateIdle,
		sessionKey("c2", "u1"): dialog.StateIdle,
	}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Errorf("states (-want +got):\n%s", diff)
	}
}

func TestFrontDesk_AllowedChannel(t *testing.T) {
	t.Parallel()
	desk, sender, _ := newDesk(t, WithChannels("c1", ""))

	if !desk.Serves("c1") || desk.Serves("c2") || desk.Serves("") {
		t.Error("Serves does not follow the allow-list")
	}
	if err := desk.HandleMessage(context.Background(), message("c1", "u1", "hola")); err != nil {
		t.Fatal(err)
	}
	if len(sender.Sent()) != 1 {
		t.Errorf("sent %d messages, want 1", len(sender.Sent()))
	}
}

func TestFrontDesk_SendError(t *testing.T) {
	t.Parallel()
	desk, sender, _ := newDesk(t)
	sendErr := errors.New("rate limited")
	sender.Err = sendErr

	err := desk.HandleMessage(context.Background(), message("c1", "u1", "hola"))
	if !errors.Is(err, sendErr) {
		t.Errorf("err = %v, want wrapped %v", err, sendErr)
	}
}

func TestFrontDesk_Reset(t *testing.T) {
	t.Parallel()
	desk, _, reg := newDesk(t)
	ctx := context.Background()

	if desk.Reset(ctx, "c1", "u1") {
		t.Error("Reset without a conversation reported true")
	}
	if err := desk.HandleMessage(ctx, message("c1", "u1", "quien eres")); err != nil {
		t.Fatal(err)
	}
	if !desk.Reset(ctx, "c1", "u1") {
		t.Error("Reset with a conversation reported false")
	}
	if reg.Len() != 0 {
		t.Errorf("sessions = %d, want 0", reg.Len())
	}
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "empty", text: "", limit: 10, want: nil},
		{name: "fits", text: "uno\ndos", limit: 10, want: []string{"uno\ndos"}},
		{name: "breaks at newline", text: "uno\ndos\ntres", limit: 7, want: []string{"uno\ndos", "tres"}},
		{name: "long line is cut", text: "abcdefghij", limit: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "counts characters", text: "ñññ\nááá", limit: 3, want: []string{"ñññ", "ááá"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, splitMessage(tt.text, tt.limit)); diff != "" {
				t.Errorf("splitMessage (-want +got):\n%s", diff)
			}
		})
	}
}
