package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	httptransport "vista/internal/http"
	"vista/internal/infra"
	"vista/internal/maps"
	"vista/internal/modules/aiusage"
	"vista/internal/service"
)

const (
	sampleQuestion = "Plan me a trip to tour inside Upenn, exploring the different buildings. It should be 2 hours long."

	sampleImage    = "image_example/example10.jpg"
	sampleLat      = 39.953514
	sampleLng      = -75.197903
	sampleAddress  = "Jon M. Huntsman Hall, 3730 Walnut St, Philadelphia, PA 19104"
	shutdownPeriod = 10 * time.Second
)

var (
	questionFlag = &cli.StringFlag{Name: "question", Aliases: []string{"q"}, Value: sampleQuestion, Usage: "travel question"}
	optimizeFlag = &cli.BoolFlag{Name: "optimize", Value: true, Usage: "let the directions service reorder waypoints"}
)

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "recommend destinations for a travel question",
		Flags: []cli.Flag{questionFlag},
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			provider, err := e.provider(c.Context)
			if err != nil {
				return err
			}
			defer provider.Close()

			destinations, err := service.NewTravelPlanner(provider, e.logger).Recommend(c.Context, c.String("question"))
			if err != nil {
				return err
			}
			printDestinations(c.App.Writer, destinations)
			return nil
		},
	}
}

func routeCommand() *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "plan a walking route through the given locations",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "location", Aliases: []string{"l"}, Required: true, Usage: "location name, repeat in visiting order"},
			optimizeFlag,
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			routes, err := e.routes()
			if err != nil {
				return err
			}
			result, err := routes.PlanRoute(c.Context, c.StringSlice("location"), c.Bool("optimize"))
			if err != nil {
				return err
			}
			printRoute(c.App.Writer, result)
			return nil
		},
	}
}

func tourCommand() *cli.Command {
	return &cli.Command{
		Name:  "tour",
		Usage: "recommend destinations and plan a walking route through them",
		Flags: []cli.Flag{questionFlag, optimizeFlag},
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			provider, err := e.provider(c.Context)
			if err != nil {
				return err
			}
			defer provider.Close()
			routes, err := e.routes()
			if err != nil {
				return err
			}

			planner := service.NewTourPlanner(service.NewTravelPlanner(provider, e.logger), routes, e.logger)
			tour, err := planner.PlanTour(c.Context, c.String("question"), c.Bool("optimize"))
			if err != nil {
				return err
			}
			printDestinations(c.App.Writer, tour.Destinations)
			fmt.Fprintln(c.App.Writer)
			printRoute(c.App.Writer, tour.Route)
			return nil
		},
	}
}

func describeCommand() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "narrate the landmark in a photo",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Value: sampleImage, Usage: "path to the photo"},
			&cli.Float64Flag{Name: "lat", Value: sampleLat, Usage: "latitude where the photo was taken"},
			&cli.Float64Flag{Name: "lng", Value: sampleLng, Usage: "longitude where the photo was taken"},
			&cli.StringFlag{Name: "address", Value: sampleAddress, Usage: "street address, optional"},
			&cli.StringFlag{Name: "landmark", Usage: "nearby landmark, optional"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			provider, err := e.provider(c.Context)
			if err != nil {
				return err
			}
			defer provider.Close()

			description, err := service.NewImageDescriber(provider, e.logger).Describe(c.Context, c.String("image"), service.LocationHint{
				Latitude:  c.Float64("lat"),
				Longitude: c.Float64("lng"),
				Address:   c.String("address"),
				Landmark:  c.String("landmark"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Generated Description:")
			fmt.Fprintln(c.App.Writer, strings.Repeat("-", 50))
			fmt.Fprintln(c.App.Writer, description)
			return nil
		},
	}
}

func geocodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "geocode",
		Usage: "resolve a location name to coordinates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "location name"},
			&cli.StringFlag{Name: "area", Usage: "area to qualify the name with (default from config)"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			routes, err := e.routes()
			if err != nil {
				return err
			}
			area := c.String("area")
			if !c.IsSet("area") {
				area = e.cfg.Maps.Area
			}
			coords, err := routes.Geocode(c.Context, c.String("name"), area)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s: %f, %f\n", c.String("name"), coords.Lat, coords.Lng)
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			provider, err := e.provider(ctx)
			if err != nil {
				return err
			}
			defer provider.Close()
			routes, err := e.routes()
			if err != nil {
				return err
			}

			recommender := service.NewTravelPlanner(provider, e.logger)
			deps := httptransport.RouterDeps{
				Recommender: recommender,
				Routes:      routes,
				Tours:       service.NewTourPlanner(recommender, routes, e.logger),
				Describer:   service.NewImageDescriber(provider, e.logger),
				Logger:      e.logger,
			}

			if e.cfg.DB.DSN != "" {
				dbPool, err := infra.NewDB(ctx, e.cfg.DB.DSN)
				if err != nil {
					return err
				}
				defer dbPool.Close()
				deps.Quota = aiusage.NewService(aiusage.NewStore(dbPool), e.logger)
				e.logger.Info("generation quota enabled", zap.Int("monthly_tokens", aiusage.DefaultTokens))
			}

			server := &http.Server{Addr: e.cfg.HTTP.Addr, Handler: httptransport.NewRouter(deps)}
			return runServer(ctx, server, e.logger)
		},
	}
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func printDestinations(w io.Writer, destinations []service.TravelDestination) {
	fmt.Fprintf(w, "Locations to visit: %s\n", strings.Join(service.Names(destinations), ", "))
	for i, d := range destinations {
		fmt.Fprintf(w, "%d. %s (%s, best time: %s)\n", i+1, d.Name, d.RecommendedDuration, d.BestTimeToVisit)
		fmt.Fprintf(w, "   %s\n", d.Description)
		if len(d.Highlights) > 0 {
			fmt.Fprintf(w, "   Highlights: %s\n", strings.Join(d.Highlights, "; "))
		}
	}
}

func printRoute(w io.Writer, r *maps.RouteResult) {
	fmt.Fprintln(w, "Route Information:")
	fmt.Fprintf(w, "From: %s\n", r.Summary.StartAddress)
	fmt.Fprintf(w, "To: %s\n", r.Summary.EndAddress)
	fmt.Fprintf(w, "Total Distance: %s\n", r.Summary.Distance)
	fmt.Fprintf(w, "Total Duration: %s\n", r.Summary.Duration)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Step-by-step directions:")
	for i, step := range r.Summary.Steps {
		fmt.Fprintf(w, "%d. %s\n", i+1, step)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Google Maps URL:")
	fmt.Fprintln(w, r.MapsURL)
}
