package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-startup-automation/internal/automator"
	"go-startup-automation/internal/browser"
	"go-startup-automation/internal/config"
	"go-startup-automation/internal/database"
	"go-startup-automation/internal/dedup"
	"go-startup-automation/internal/letter"
	"go-startup-automation/internal/models"
	"go-startup-automation/internal/telegram"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Browse the board and draft cover letters",
		Long: `Run launches chromium, restores saved cookies, logs in when credentials are
configured, applies the board filters and drafts a letter for each selected
listing. The run report and the letters are written to the output directory.`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	cmd.Flags().IntP("max", "n", 0, "Maximum listings to process (overrides max_applications)")
	cmd.Flags().Bool("pdf", false, "Also render each letter to PDF")
	cmd.Flags().Bool("headed", false, "Show the browser window")
	cmd.Flags().Bool("match", false, "Rank listings against the configured filter before processing")

	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("max"); n > 0 {
		cfg.MaxApplications = n
	}
	if headed, _ := cmd.Flags().GetBool("headed"); headed {
		cfg.Headless = false
	}
	if renderPDF, _ := cmd.Flags().GetBool("pdf"); renderPDF {
		cfg.RenderPDF = true
	}
	if match, _ := cmd.Flags().GetBool("match"); match {
		cfg.MatchListings = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	return runAutomation(ctx, cfg, golog.Default)
}

func runAutomation(ctx context.Context, cfg *config.Config, log *golog.Logger) error {
	log.Info("🚀 Starting Work at a Startup automation...")

	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:  cfg.Headless,
		SlowMo:    float64(cfg.SlowMoMS),
		UserAgent: cfg.UserAgent,
	}, log)
	if err != nil {
		return err
	}
	defer pm.Close()

	cookies, err := browser.LoadCookies(cfg.CookiesPath)
	if err != nil {
		log.Warnf("⚠️ Could not load cookies: %v. Continuing.", err)
	}

	bctx, err := pm.NewContext(cookies)
	if err != nil {
		return err
	}
	defer bctx.Close()

	pg, err := bctx.NewPage()
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	screenshots, err := browser.NewScreenshotDebugger(cfg.ScreenshotDir, log)
	if err != nil {
		return err
	}
	page := browser.NewPage(pg, screenshots)
	log.Info("✅ Browser initialized successfully!")

	options := []automator.Option{}

	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		options = append(options, automator.WithStore(repo))
	}

	var bot *telegram.Bot
	if cfg.TelegramEnabled() {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return err
		}
		log.Info("🤖 Telegram Bot initialized.")
		options = append(options, automator.WithNotifier(bot))
	}

	seen, err := dedup.NewListingCache(cfg.CachePath, cfg.SeenExpiry, log)
	if err != nil {
		log.Warnf("⚠️ Seen-listing cache disabled: %v", err)
	} else {
		options = append(options, automator.WithSeenCache(seen))
	}

	// cookies from an earlier login stand in for credentials
	if !cfg.HasCredentials() && len(cookies) > 0 {
		options = append(options, automator.WithSession(automator.Session{LoggedIn: true}))
	}

	a, err := automator.New(page, automatorOptions(cfg), letter.NewComposer(cfg.Profile, log), log, options...)
	if err != nil {
		return err
	}

	report, runErr := a.Run(ctx, automator.Credentials{Email: cfg.Email, Password: cfg.Password})

	if path, err := saveReport(cfg.OutputDir, report); err != nil {
		log.Warnf("⚠️ Failed to save report: %v", err)
	} else {
		log.Infof("📁 Results saved to %s", path)
	}

	out := letterWriter{dir: cfg.OutputDir, applicant: cfg.Profile.Name, log: log}
	if cfg.RenderPDF {
		out.pdf, err = newPDFGenerator(cfg.LetterTemplate, pm.Browser())
		if err != nil {
			log.Warnf("⚠️ PDF rendering disabled: %v", err)
		}
	}
	out.writeAll(report)

	if cfg.SaveCookiesPath != "" && a.Session().LoggedIn {
		if err := browser.SaveCookies(bctx, cfg.SaveCookiesPath); err != nil {
			log.Warnf("⚠️ Failed to save cookies: %v", err)
		} else {
			log.Infof("🍪 Cookies saved to %s", cfg.SaveCookiesPath)
		}
	}

	if bot != nil {
		notifyRun(bot, report, runErr, log)
	}

	log.Info("🏁 Execution finished.")
	return runErr
}

func automatorOptions(cfg *config.Config) automator.Options {
	return automator.Options{
		BaseURL:          cfg.BaseURL,
		ListURL:          cfg.ListURL,
		LoginURL:         cfg.LoginURL,
		Filter:           cfg.Filter,
		MatchListings:    cfg.MatchListings,
		MaxApplications:  cfg.MaxApplications,
		ProbeTimeout:     cfg.ProbeTimeout,
		ScrollSettle:     cfg.ScrollSettle,
		MaxScrolls:       cfg.MaxScrolls,
		DetailsPerMinute: cfg.DetailsPerMin,
		SkipSeen:         cfg.SkipSeen,
	}
}

func notifyRun(bot *telegram.Bot, report *models.RunReport, runErr error, log *golog.Logger) {
	if runErr != nil {
		if err := bot.SendError(runErr); err != nil {
			log.Warnf("⚠️ Failed to send error to Telegram: %v", err)
		}
		return
	}
	msg := fmt.Sprintf("✅ Drafted %d letters, %d listings failed.", report.SuccessCount, report.ErrorCount)
	if err := bot.SendStatus(msg); err != nil {
		log.Warnf("⚠️ Failed to send status to Telegram: %v", err)
	}
}
