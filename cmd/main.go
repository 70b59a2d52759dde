package main

import (
	"bufio"
	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/infrastructure/ws"
	"chat-client/internal"
	"chat-client/moderation"
	"chat-client/observability"
	"chat-client/search"
	"chat-client/session"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v", err)
	}
	os.Exit(code)
}

// run handles configuration loading, session wiring, and the input loop.
// This pattern ensures clean resource management and error propagation.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire the session core on top of one websocket transport.
	transport := ws.NewTransport(log, config.ServerURL)
	channel := session.NewChannel(log, transport)

	var opts []session.Option
	if len(config.CensoredWords) > 0 {
		replacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return exitConfig, err
		}
		filter, err := moderation.NewFilter(config.CensoredWords, replacement)
		if err != nil {
			return exitConfig, fmt.Errorf("building outbound filter: %w", err)
		}
		opts = append(opts, session.WithOutboundFilter(filter))
	}

	transcript, err := search.NewTranscript()
	if err != nil {
		return exitRuntime, fmt.Errorf("opening transcript index: %w", err)
	}
	defer func() {
		log.Info("Closing transcript index...")
		_ = transcript.Close()
	}()
	opts = append(opts, session.WithTranscriptIndex(transcript))

	facade := session.NewFacade(log, channel, opts...)
	facade.Notify(render)

	heartbeat := observability.NewHeartbeat(log, config.HeartbeatInterval)
	log.Debug("Starting worker", "worker", contract.GetWorkerName(heartbeat))
	go func() { _ = heartbeat.Run(ctx) }()

	// 4. Collect the identity, then hand the terminal to the room.
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("display name: ")
	for scanner.Scan() {
		if err := facade.Submit(ctx, strings.TrimSpace(scanner.Text())); err != nil {
			color.Red.Println(err)
			fmt.Print("display name: ")
			continue
		}
		break
	}

	log.Info("Connecting", "url", config.ServerURL)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "/quit":
			facade.LeaveRoom()
			color.Yellow.Println("you left the room")
			return exitOK, nil
		case line == "/close":
			commandCtx, cancel := context.WithTimeout(ctx, config.CommandTimeout)
			result, err := facade.CloseRoomForAll(commandCtx)
			cancel()
			if err != nil {
				color.Red.Printf("close room: %v\n", err)
				continue
			}
			if result.Acknowledged {
				color.Yellow.Println("room closed for everyone")
			} else {
				color.Red.Printf("room close refused: %s\n", result.Reason)
			}
		case line == "/users":
			renderRoster(facade.Roster(), facade.Presence())
		case strings.HasPrefix(line, "/name "):
			// Re-registration after a rejected identity or retry after a
			// failed connection attempt.
			if err := facade.Submit(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/name "))); err != nil {
				color.Red.Println(err)
			}
		case strings.HasPrefix(line, "/find "):
			query := search.ParseQuery(strings.TrimPrefix(line, "/find "))
			matches, err := transcript.Find(ctx, query)
			if err != nil {
				color.Red.Printf("search: %v\n", err)
				continue
			}
			for _, match := range matches {
				fmt.Printf("%s: %s\n", match.Author, match.Value)
			}
			if len(matches) == 0 {
				fmt.Println("no matches")
			}
		case strings.HasPrefix(line, "/image "):
			payload, err := encodeImage(strings.TrimPrefix(line, "/image "), config.MaxImageWidth)
			if err != nil {
				color.Red.Println(err)
				continue
			}
			if err := facade.SendImage(ctx, payload); err != nil {
				color.Red.Printf("send image: %v\n", err)
			}
		default:
			if err := facade.SendText(ctx, line); err != nil {
				color.Red.Printf("send: %v\n", err)
			}
		}
	}
	return exitOK, nil
}

// render prints each applied channel event. It runs on the channel's
// dispatch goroutine, so it only formats and never blocks.
func render(e event.ChannelEvent) {
	switch evt := e.(type) {
	case event.EntryReceived:
		switch evt.Entry.Type {
		case domain.EntryNotice:
			color.Yellow.Printf("        %s\n", evt.Entry.Value)
		case domain.EntryImage:
			color.Magenta.Printf("%s sent an image (%d bytes)\n", evt.Entry.Author, len(evt.Entry.Value))
		default:
			fmt.Printf("%s: %s\n", evt.Entry.Author, evt.Entry.Value)
		}
	case event.Connected:
		color.Green.Println("connected")
	case event.ConnectError:
		color.Red.Printf("connection failed: %s\n", evt.Reason)
		color.Red.Println("use /name <displayName> to try again")
	case event.Disconnected:
		color.Yellow.Println("disconnected")
	case event.ParticipantJoined:
		color.Green.Printf("%s joined\n", evt.User.DisplayName)
	case event.ParticipantDisconnected:
		color.Yellow.Printf("%s went away\n", evt.ID)
	}
}

func renderRoster(roster domain.Roster, presence int) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Status"})
	for _, p := range roster {
		status := "away"
		if p.Connected {
			status = "online"
		}
		name := p.DisplayName
		if p.Self {
			name += " (you)"
		}
		table.Append([]string{name, status})
	}
	table.SetFooter([]string{"sessions", fmt.Sprintf("%d", presence)})
	table.Render()
}
