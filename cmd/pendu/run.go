package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pendu/internal/game"
	"pendu/internal/leaderboard"
	"pendu/internal/session"
	"pendu/internal/transport"
	"pendu/internal/words"
)

// runHost creates a room and drives the host-side session loop
func runHost(ctx context.Context, opts *options) error {
	sess, cleanup, err := newSession(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	code, err := sess.CreateRoom(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Room created. Share this code: %s\n", code)
	fmt.Printf("(QR code: %s/rooms/%s/qr.png)\n", strings.TrimRight(opts.signalingURL, "/"), code)

	return repl(sess, opts)
}

// runJoin joins an existing room and drives the guest-side session loop
func runJoin(ctx context.Context, opts *options, roomCode string) error {
	sess, cleanup, err := newSession(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sess.JoinRoom(ctx, roomCode); err != nil {
		return err
	}

	fmt.Printf("Joined room %s. Waiting for the host to start.\n", roomCode)
	return repl(sess, opts)
}

// newSession wires transport, word source and leaderboard into a session
func newSession(opts *options) (*session.Session, func(), error) {
	level := words.Level(opts.difficulty)
	if !words.IsLevel(opts.difficulty) {
		return nil, nil, fmt.Errorf("unknown difficulty %q", opts.difficulty)
	}

	logLevel := slog.LevelWarn
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	store, err := leaderboard.Open(opts.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open leaderboard: %w", err)
	}

	mode := session.ModeCoop
	if opts.adversarial {
		mode = session.ModeAdversarial
	}

	peer := transport.NewWSPeer(transport.WSConfig{
		SignalingURL:  strings.TrimRight(opts.signalingURL, "/"),
		ListenAddr:    opts.listenAddr,
		AdvertiseHost: opts.advertiseHost,
		JoinTimeout:   opts.joinTimeout,
	}, logger)

	sess := session.New(session.Options{
		Mode:        mode,
		PlayerName:  opts.name,
		Difficulty:  level,
		Transport:   peer,
		Words:       words.NewSessionMemory(),
		Recorder:    store,
		Logger:      logger,
		SettleDelay: opts.settleDelay,
	})

	cleanup := func() {
		sess.EndSession()
		store.Close()
	}
	return sess, cleanup, nil
}

// repl is the thin terminal front end: single letters are guesses,
// !-commands drive the session
func repl(sess *session.Session, opts *options) error {
	fmt.Println(`Commands: a-z guess | !start | !word <word> [category] | !continue | !board | !quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		render(sess)
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "!quit":
			return nil

		case line == "!start":
			if err := sess.StartRound(); err != nil {
				fmt.Println("cannot start:", err)
			}

		case strings.HasPrefix(line, "!word"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				fmt.Println("usage: !word <word> [category]")
				continue
			}
			category := ""
			if len(fields) > 2 {
				category = strings.Join(fields[2:], " ")
			}
			if err := sess.EnterWordInput(); err != nil {
				fmt.Println("cannot choose word:", err)
				continue
			}
			if err := sess.StartRoundWithWord(fields[1], category); err != nil {
				fmt.Println("cannot start round:", err)
			}

		case line == "!continue":
			if err := sess.ContinueSession(); err != nil {
				fmt.Println("cannot continue:", err)
			}

		case line == "!board":
			printBoard(opts)

		default:
			runes := []rune(line)
			if len(runes) != 1 || !game.IsLetter(runes[0]) {
				fmt.Println("guess a single letter a-z")
				continue
			}
			if _, err := sess.Guess(runes[0]); err != nil {
				fmt.Println("cannot guess:", err)
			}
		}
	}
}

// render prints a snapshot of the current round and roster
func render(sess *session.Session) {
	st := sess.Game()
	if st == nil {
		players := sess.Players()
		if len(players) > 0 {
			names := make([]string, 0, len(players))
			for _, p := range players {
				names = append(names, p.Name)
			}
			fmt.Printf("[%s] players: %s\n", sess.Phase(), strings.Join(names, ", "))
		}
		return
	}

	fmt.Printf("%s  (errors %d/%d)", string(st.Display()), st.Errors, st.MaxErrors)
	if st.Category != "" {
		fmt.Printf("  [%s]", st.Category)
	}
	if current := sess.CurrentPlayer(); current != nil {
		fmt.Printf("  turn: %s", current.Name)
	}
	fmt.Println()

	switch st.Status {
	case game.StatusWon:
		score, won := sess.SessionScore()
		fmt.Printf("Won! The word was %s. Session: %d points, %d words. !continue for the next word.\n",
			st.OriginalWord, score, won)
	case game.StatusLost:
		fmt.Printf("Lost. The word was %s.\n", st.OriginalWord)
	}
}

// printBoard shows the local leaderboard top scores
func printBoard(opts *options) {
	store, err := leaderboard.Open(opts.dbPath)
	if err != nil {
		fmt.Println("cannot open leaderboard:", err)
		return
	}
	defer store.Close()

	for _, mode := range []string{"coop", "pvp"} {
		entries, err := store.TopScores(mode, 0)
		if err != nil {
			fmt.Println("cannot read leaderboard:", err)
			return
		}
		if len(entries) == 0 {
			continue
		}
		fmt.Printf("-- %s --\n", mode)
		for i, e := range entries {
			fmt.Printf("%2d. %-20s %4d pts  (%s)\n", i+1, e.PlayerName, e.Score, e.Word)
		}
	}
}
