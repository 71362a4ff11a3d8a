package api

import (
	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/extractor"
	"github.com/anudeepadi/seekingalpha/app/scraper"
	"github.com/anudeepadi/seekingalpha/app/source"
	"github.com/anudeepadi/seekingalpha/app/tasks"
)

type Handler struct {
	sourceRepo   database.SourceRepository
	linkRepo     database.LinkRepository
	progressRepo database.ProgressRepository
	configCache  *source.ConfigCache
	client       *scraper.Client
	linkParser   *scraper.LinkParser
	feedParser   *scraper.FeedParser
	extractor    *extractor.Extractor
	salvage      *extractor.SalvageExtractor
	scheduler    tasks.TaskSchedulerInterface
	htmlDir      string
	outputDir    string
}
