package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cuemby/ecsgo/pkg/ecs"
	"github.com/cuemby/ecsgo/pkg/ecslog"
	"github.com/cuemby/ecsgo/pkg/ecsmetrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP control surface around a live World, ticking it on a fixed period",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "path to a YAML config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	period, err := time.ParseDuration(cfg.TickPeriod)
	if err != nil {
		return err
	}

	logger := ecslog.WithComponent("ecsdemo-serve")

	world := ecs.NewWorld()
	ecs.AddResource(world, KillCounter{})
	schedule := world.NewSchedule()

	world.Spawn()
	ecs.Insert(world.Spawn(), Health(0))
	ecs.Insert(world.Spawn(), Health(1))

	ecs.AddSystem2(
		schedule,
		ecs.QueryOf[Health](ecs.Read[Health]{}, ecs.Without[Immortal]{}),
		ecs.WriterOf[Killed](),
		func(q *ecs.Query[Health, ecs.Read[Health], ecs.Without[Immortal]], w ecs.EventWriter[Killed]) {
			q.Each(func(id ecs.EntityID, health Health) {
				if health <= 0 {
					w.Write(Killed{Entity: id})
				}
			})
		},
	)

	ecs.AddSystem2(
		schedule,
		ecs.ReaderOf[Killed](),
		ecs.ResMutOf[KillCounter](),
		func(r *ecs.EventReader[Killed], counter ecs.ResMut[KillCounter]) {
			for {
				evt, ok := r.Next()
				if !ok {
					break
				}
				counter.Get().Count++
				world.EntityFor(evt.Entity).Despawn()
			}
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tickLoop(ctx, schedule, period, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(ecsmetrics.Handler()))
	router.POST("/tick", func(c *gin.Context) {
		if err := schedule.Run(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ticked"})
	})
	router.GET("/stats", func(c *gin.Context) {
		kills, err := ecs.ReadResource[KillCounter](world)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"kill_count": kills.Count})
	})

	logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	return router.Run(cfg.ListenAddr)
}

// tickLoop drives the schedule at a fixed period until ctx is
// cancelled, independent of the HTTP-triggered /tick endpoint.
func tickLoop(ctx context.Context, schedule *ecs.Schedule, period time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := schedule.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("background tick failed")
			}
		}
	}
}
