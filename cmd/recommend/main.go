// Command recommend prints recommendations for a list of completed courses
// using a catalog file, without starting the HTTP server.
//
//	recommend -catalog embedded_courses.json CS240 MATH135
//	echo '{"completed_courses":["CS240"]}' | recommend -stdin
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/wichananm65/course-recommender/internal/course"
	"github.com/wichananm65/course-recommender/internal/logging"
	"github.com/wichananm65/course-recommender/internal/recommend"
)

func main() {
	var (
		catalogPath string
		fromStdin   bool
		verbose     bool
	)
	cfg := recommend.DefaultConfig()
	flag.StringVar(&catalogPath, "catalog", "embedded_courses.json", "path to the catalog JSON file")
	flag.BoolVar(&fromStdin, "stdin", false, "read a JSON request from stdin instead of arguments")
	flag.BoolVar(&verbose, "v", false, "log pipeline decisions to stderr")
	flag.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "share of the score given to similarity")
	flag.Float64Var(&cfg.MinLiked, "min-liked", cfg.MinLiked, "minimum liked percentage")
	flag.IntVar(&cfg.TopN, "n", cfg.TopN, "number of recommendations (1-5)")
	flag.Parse()

	level := "warn"
	if verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})
	log := logging.Component("cli")

	engine, err := buildEngine(catalogPath, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	if fromStdin {
		body, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(engine.RecommendJSON(body)))
		return
	}

	res := engine.Recommend(flag.Args())
	if res.Error != "" {
		fmt.Fprintf(os.Stderr, "recommend: %s\n", res.Error)
		os.Exit(1)
	}
	if len(res.Recommendations) == 0 {
		fmt.Println("no recommendations")
		return
	}
	for i, r := range res.Recommendations {
		fmt.Printf("%d. %-10s %.4f  %s\n", i+1, r.CourseCode, r.Score, r.CourseInfo.URL)
	}
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func buildEngine(path string, cfg recommend.Config, log zerolog.Logger) (*recommend.Engine, error) {
	svc, err := course.NewService(context.Background(), course.NewJSONRepository(path), cfg.DepartmentPrefixLen, log)
	if err != nil {
		return nil, err
	}
	return recommend.NewEngine(svc.Store(), cfg, log)
}
