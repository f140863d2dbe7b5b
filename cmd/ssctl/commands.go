package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"singularshift/internal/app"
	"singularshift/internal/audit"
	"singularshift/internal/config"
	"singularshift/internal/events"
	"singularshift/internal/insight"
	"singularshift/internal/llm"
	"singularshift/internal/logger"
	"singularshift/internal/model"
	"singularshift/internal/report"
	"singularshift/internal/repository"
	"singularshift/internal/service"
)

// --- seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and a demo interview",
	Long: `Create the admin account and one finalized demo interview.

Examples:
  ssctl seed --email sean@singularshift.com --password admin123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		if email == "" || password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		return withStore(cmd.Context(), func(cfg *config.Config, users repository.UserRepo, interviews repository.InterviewRepo, log *zap.Logger) error {
			auth := service.NewAuthService(users, nil, cfg.JWTSecret, cfg.AdminEmails)
			user, err := auth.SignUp(cmd.Context(), &model.SignUpRequest{
				Name:       name,
				Email:      email,
				Password:   password,
				JobTitle:   "Head of Operations",
				Seniority:  "Executive",
				Department: "Operations",
				Location:   "Dubai",
			})
			switch {
			case errors.Is(err, service.ErrUserExists):
				user, err = users.GetByEmail(cmd.Context(), email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", email)
			case err != nil:
				return err
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID)
			}
			if !auth.IsAdmin(user.Email) {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s is not in ADMIN_EMAILS\n", user.Email)
			}

			requester := report.NewRequester(llm.NewForTask(cfg.AI, llm.TaskClassify), llm.NewForTask(cfg.AI, llm.TaskReport), cfg.AI.StrictRoleCategories, log)
			pipeline := audit.NewPipeline(insight.New(), requester, interviews, nil, cfg.Session.MinSubstantiveMessages, log)
			messages := demoTranscript()
			doc, err := pipeline.Run(cmd.Context(), audit.Submission{
				InterviewID:        "demo-" + user.ID,
				Participant:        user.Participant(),
				Messages:           messages,
				CompletionObserved: audit.CompletionObserved(messages),
			})
			if errors.Is(err, service.ErrInterviewExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "demo interview for %s already exists\n", user.Email)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created interview %s (score %d, finalized %t)\n", doc.ID, doc.ReadinessScore, doc.Finalized)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().String("email", "", "admin email")
	seedCmd.Flags().String("password", "", "admin password")
	seedCmd.Flags().String("name", "Admin", "admin display name")
}

func demoTranscript() []model.Message {
	a := func(s string) model.Message { return model.Message{Role: model.RoleAssistant, Content: s} }
	u := func(s string) model.Message { return model.Message{Role: model.RoleUser, Content: s} }
	return []model.Message{
		a("Hello, I'm Leila. Could you tell me about your role and responsibilities?"),
		u("I manage the operations team and I'm responsible for vendor onboarding and reporting."),
		a("What are the biggest bottlenecks in your week?"),
		u("Manual data entry is the main problem because our systems don't talk to each other."),
		a("Which tools do you rely on?"),
		u("We use Excel, SAP and Slack, and about 30% of the work is automated."),
		a("How much time goes on repetitive tasks?"),
		u("Probably around 12 hours a week across the team of 8 people."),
		a("Have you used any AI tools so far?"),
		u("We tried ChatGPT for drafting emails and it was quite useful, I'm excited to do more."),
		a("Thank you for your time, this concludes our interview. Have a great day."),
	}
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the fine-tuning dataset as JSONL",
	Long: `Write prompt/response pairs for every finalized interview.

Examples:
  ssctl export --out singularshift-training-data.jsonl
  ssctl export > data.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		var w io.Writer = cmd.OutOrStdout()
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		return withStore(cmd.Context(), func(_ *config.Config, _ repository.UserRepo, interviews repository.InterviewRepo, log *zap.Logger) error {
			n, pairs, err := service.NewExportService(interviews, log).WriteJSONL(cmd.Context(), w)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d pairs from %d interviews\n", pairs, n)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().String("out", "", "output file (default stdout)")
}

// --- extract ---

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the insight extractor on a transcript file",
	Long: `Run the insight extractor offline and print the result as JSON.
The file holds either a message array or an object with a "messages" field.

Examples:
  ssctl extract --file transcript.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return fmt.Errorf("--file is required")
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		messages, err := parseTranscript(data)
		if err != nil {
			return err
		}

		set := insight.New().Extract(messages)
		out := struct {
			Insights       model.InsightSet     `json:"insights"`
			StructuredData model.StructuredData `json:"structuredData"`
			Substantive    int                  `json:"substantiveMessages"`
			Completed      bool                 `json:"completionObserved"`
		}{set, set.StructuredData(), model.CountSubstantive(messages), audit.CompletionObserved(messages)}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	extractCmd.Flags().String("file", "", "transcript JSON file")
}

func parseTranscript(data []byte) ([]model.Message, error) {
	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err == nil {
		return messages, nil
	}
	var wrapped struct {
		Messages []model.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}
	return wrapped.Messages, nil
}

// --- watch ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print audit events as interviews are stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.NatsURL == "" {
			return fmt.Errorf("NATS_URL is not set")
		}
		log, err := logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}

		client, err := events.NewClient(cfg.NatsURL, cfg.NatsToken, log)
		if err != nil {
			return err
		}
		defer client.Close()

		out := cmd.OutOrStdout()
		err = client.Subscribe(events.SubjectAuditStored, func(_ string, data []byte) {
			var ev events.AuditStored
			if err := json.Unmarshal(data, &ev); err != nil {
				log.Warn("malformed audit event", zap.Error(err))
				return
			}
			fmt.Fprintf(out, "%s  interview=%s user=%s score=%d category=%q finalized=%t\n",
				ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.InterviewID, ev.UserID, ev.ReadinessScore, ev.RoleCategory, ev.Finalized)
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		return nil
	},
}

// withStore opens MongoDB for the duration of fn
func withStore(ctx context.Context, fn func(cfg *config.Config, users repository.UserRepo, interviews repository.InterviewRepo, log *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	client, err := app.OpenMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	gw := repository.NewGateway(db)
	return fn(cfg, repository.NewUserRepo(gw), repository.NewInterviewRepo(gw), log)
}
