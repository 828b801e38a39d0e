package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/prepdeck/interviewd/internal/interview"
	"github.com/prepdeck/interviewd/internal/logger"
)

const (
	PromptAnswerNext   = "Answer the next question"
	PromptEndInterview = "End the interview and get the report"
)

var errEndRequested = errors.New("end requested")

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a mock interview interactively in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		practice(cmd)
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)

	practiceCmd.Flags().String("role", "Software Engineer", "target role for the interview")
	practiceCmd.Flags().String("experience", "2-3", "experience level in years")
	practiceCmd.Flags().String("difficulty", "Medium", "question difficulty (Easy, Medium, Hard, Expert)")
	practiceCmd.Flags().String("resume-file", "", "path to a plain-text resume")
}

func practice(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	orch, err := buildOrchestrator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building orchestrator", zap.Error(err))
	}

	resumeText := loadResume(cmd, logger)

	sessionID := uuid.NewString()
	question, err := orch.Start(ctx, interview.StartParams{
		SessionID:  sessionID,
		Role:       flagValue(cmd, "role"),
		Experience: flagValue(cmd, "experience"),
		Difficulty: flagValue(cmd, "difficulty"),
		ResumeText: resumeText,
	})
	if err != nil {
		logger.Fatal("starting interview", zap.Error(err))
	}

	history := []interview.ConversationEntry{
		{Role: interview.RoleInterviewer, Content: question},
	}

	fmt.Printf("\nInterviewer: %s\n\n", question)

	for {
		answer, err := askForAnswer()
		if err != nil {
			if errors.Is(err, errEndRequested) {
				break
			}
			logger.Fatal("reading answer", zap.Error(err))
		}

		result, err := orch.Answer(ctx, interview.AnswerParams{
			SessionID: sessionID,
			Answer:    answer,
			History:   history,
		})
		if err != nil {
			logger.Fatal("processing answer", zap.Error(err))
		}

		history = append(history,
			interview.ConversationEntry{Role: "candidate", Content: answer},
			interview.ConversationEntry{Role: interview.RoleInterviewer, Content: result.Question},
		)

		fmt.Printf("\nFeedback: %s\n", result.Feedback)
		fmt.Printf("Score: %.0f/100\n\n", result.Score)
		fmt.Printf("Interviewer: %s\n\n", result.Question)
	}

	result, err := orch.End(ctx, sessionID)
	if err != nil {
		logger.Fatal("ending interview", zap.Error(err))
	}

	fmt.Printf("\nInterview finished.\n")
	fmt.Printf("Questions asked: %d, answers scored: %d\n", result.Summary.TotalQuestions, result.Summary.TotalInteractions)
	fmt.Printf("Average score: %.1f/100\n", result.Summary.AverageScore)
	fmt.Printf("Assessment: %s\n", result.Report.OverallAssessment)
	if result.DocumentPath != "" {
		fmt.Printf("Full report written to %s\n", result.DocumentPath)
	}
}

// askForAnswer prompts for the next action, then the answer text.
func askForAnswer() (string, error) {
	actionPrompt := promptui.Select{
		Label: "What next?",
		Items: []string{PromptAnswerNext, PromptEndInterview},
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return "", err
	}

	if action == PromptEndInterview {
		return "", errEndRequested
	}

	answerPrompt := promptui.Prompt{
		Label: "Your answer",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("answer must not be empty")
			}
			return nil
		},
	}

	return answerPrompt.Run()
}

func loadResume(cmd *cobra.Command, logger *zap.Logger) string {
	path := flagValue(cmd, "resume-file")
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading resume file, continuing without a resume",
			zap.String("path", path),
			zap.Error(err),
		)
		return ""
	}

	return string(data)
}

func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}
