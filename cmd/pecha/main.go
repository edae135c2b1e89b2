package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ttacon/chalk"
	"github.com/urfave/cli"

	"pecha/config"
	"pecha/game"
	"pecha/lobby"
	"pecha/network"
	"pecha/protocol"
	"pecha/room"
)

const shutdownGrace = 5 * time.Second

func main() {
	config.InitConfig()

	if err := makeapp().Run(os.Args); err != nil {
		fmt.Print(chalk.Red)
		log.Println(err, chalk.Reset)
		os.Exit(1)
	}
}

func makeapp() *cli.App {
	defaults := config.Defaults()

	app := cli.NewApp()
	app.Name = "pecha"
	app.Usage = "kite fighting arena"

	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "Host rooms over websocket and the polling lobby",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "addr", Value: defaults.Addr, EnvVar: "PECHA_ADDR", Usage: "Listen address"},
				cli.IntFlag{Name: "tick-hz", Value: defaults.TickHz, EnvVar: "PECHA_TICK_HZ", Usage: "Simulation steps per second"},
				cli.IntFlag{Name: "broadcast-hz", Value: defaults.BroadcastHz, EnvVar: "PECHA_BROADCAST_HZ", Usage: "Snapshots per second"},
				cli.IntFlag{Name: "max-players", Value: defaults.MaxPlayers, EnvVar: "PECHA_MAX_PLAYERS", Usage: "Participants per versus room"},
				cli.IntFlag{Name: "bots", Value: defaults.PracticeBots, EnvVar: "PECHA_PRACTICE_BOTS", Usage: "Bots in practice rooms"},
				cli.StringFlag{Name: "rooms-dir", Value: defaults.RoomsDir, EnvVar: "PECHA_ROOMS_DIR", Usage: "Directory of the polling lobby"},
				cli.DurationFlag{Name: "stale-after", Value: defaults.StaleAfter, EnvVar: "PECHA_STALE_AFTER", Usage: "Drop silent lobby players after"},
				cli.Int64Flag{Name: "seed", Value: defaults.Seed, EnvVar: "PECHA_SEED", Usage: "Wind and bot seed, 0 for time based"},
			},
			Action: serveAction,
		},
		{
			Name:  "practice",
			Usage: "Run a headless practice match against bots",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "bots", Value: defaults.PracticeBots, EnvVar: "PECHA_PRACTICE_BOTS", Usage: "Number of bots"},
				cli.IntFlag{Name: "ticks", Value: 60 * 60, Usage: "Maximum number of steps"},
				cli.Int64Flag{Name: "seed", Value: defaults.Seed, EnvVar: "PECHA_SEED", Usage: "Wind and bot seed, 0 for time based"},
			},
			Action: practiceAction,
		},
		{
			Name:  "bot",
			Usage: "Join a room as a headless participant",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "url", Usage: "Room endpoint, e.g. ws://localhost:8080/ws/ABC123; required"},
				cli.StringFlag{Name: "name", Value: "", Usage: "Display name"},
				cli.StringFlag{Name: "codec", Value: "json", Usage: "json or msgpack"},
				cli.DurationFlag{Name: "duration", Value: 2 * time.Minute, Usage: "Leave after"},
			},
			Action: botAction,
		},
	}

	return app
}

func serveAction(c *cli.Context) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	settings.Addr = c.String("addr")
	settings.TickHz = c.Int("tick-hz")
	settings.BroadcastHz = c.Int("broadcast-hz")
	settings.MaxPlayers = c.Int("max-players")
	settings.PracticeBots = c.Int("bots")
	settings.RoomsDir = c.String("rooms-dir")
	settings.StaleAfter = c.Duration("stale-after")
	settings.Seed = c.Int64("seed")
	if err := settings.Validate(); err != nil {
		return err
	}

	opts := room.DefaultOptions()
	opts.TickHz = settings.TickHz
	opts.BroadcastHz = settings.BroadcastHz
	opts.MaxPlayers = settings.MaxPlayers
	opts.Bots = settings.PracticeBots
	opts.Tuning = settings.Tuning()
	opts.Seed = settings.Seed

	rooms := room.NewManager(opts)
	defer rooms.Close()

	store, err := lobby.NewStore(settings.RoomsDir, lobby.WithStaleAfter(settings.StaleAfter))
	if err != nil {
		return err
	}

	health := network.NewHealthCheck()
	health.Register("rooms-dir", func() error {
		_, err := os.Stat(settings.RoomsDir)
		return err
	})

	logger := os.Stdout
	router := network.NewRouter(network.NewServer(rooms), health, logger)
	(&lobby.API{Store: store}).Register(router, logger)

	srv := &http.Server{Addr: settings.Addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (ws endpoint: /ws/{code})", settings.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// practiceAction plays a practice match on a simulated clock. The human kite
// idles, so the bots decide the outcome.
func practiceAction(c *cli.Context) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	tu := settings.Tuning()
	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	state := game.NewPracticeState("you", "YOU", c.Int("bots"), tu)
	sim := game.NewSim(tu, seed)
	now := time.Now()
	step := time.Second / time.Duration(protocol.SimTickHz)

	status := game.StatusPlaying
	for i := 0; i < c.Int("ticks"); i++ {
		var cut *game.Cut
		state, cut = sim.Step(state, now)
		now = now.Add(step)
		if cut != nil {
			fmt.Print(chalk.Yellow)
			log.Println(fmt.Sprintf("tick %d: %s", state.Tick, cut.Message), chalk.Reset)
		}
		status = game.Evaluate(state.Kites, "you")
		if status == game.StatusVictory || status == game.StatusDefeat {
			break
		}
	}

	color := chalk.Green
	if status != game.StatusVictory {
		color = chalk.Red
	}
	fmt.Print(color)
	log.Println(fmt.Sprintf("%s after %d ticks, %d kites flying", status, state.Tick, game.LiveCount(state.Kites)), chalk.Reset)
	return nil
}

// botAction steers on a random walk and fires whenever the cooldown allows.
func botAction(c *cli.Context) error {
	url := c.String("url")
	if url == "" {
		return cli.NewExitError("--url is required", 1)
	}
	codec, err := protocol.CodecByName(c.String("codec"))
	if err != nil {
		return err
	}
	settings, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := network.Dial(ctx, url, network.ClientOptions{
		Name:   c.String("name"),
		Codec:  codec,
		Tuning: settings.Tuning(),
	})
	if err != nil {
		return err
	}
	defer client.Close()
	log.Printf("joined %s as %s", client.Welcome().RoomCode, client.PlayerID())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	stick := game.Stick{}
	ticker := time.NewTicker(time.Second / protocol.ClientInputHz)
	defer ticker.Stop()
	deadline := time.After(c.Duration("duration"))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			return nil
		case <-client.Done():
			log.Println("host gone:", client.Replica().Status())
			return nil
		case res := <-client.Results():
			fmt.Print(chalk.Green)
			log.Println(fmt.Sprintf("%s (winner %s) %s", res.Status, res.WinnerID, res.Message), chalk.Reset)
			return nil
		case now := <-ticker.C:
			stick.X = clampStick(stick.X + (rng.Float64()-0.5)*0.4)
			stick.Y = clampStick(stick.Y + (rng.Float64()-0.5)*0.4)
			client.Replica().Predict(now)
			if err := client.Steer(stick); err != nil {
				return err
			}
			if err := client.Attack(now); err != nil {
				return err
			}
		}
	}
}

func clampStick(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
