package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/insights"
	"example.com/timewealth/internal/persistence/memory"
	"example.com/timewealth/internal/reflection"
	"example.com/timewealth/internal/tracker"
)

func (a *app) onboardCmd() *cobra.Command {
	var values []string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create the value profile with equal priorities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := a.service()
			if err != nil {
				return err
			}
			names, err := domain.ValueNames(values)
			if err != nil {
				return err
			}
			profile, err := svc.Onboard(cmd.Context(), localUser, names)
			if err != nil {
				return err
			}
			return a.printProfile(profile)
		},
	}
	cmd.Flags().StringArrayVar(&values, "value", nil, "Value to track (repeatable)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func (a *app) insightsCmd() *cobra.Command {
	var selector string
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show time per value against target priorities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := a.service()
			if err != nil {
				return err
			}
			report, err := svc.Insights(cmd.Context(), localUser, insights.Range(selector))
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(report)
			}

			fmt.Fprintf(a.out, "%s to %s: %d activities, %s tracked\n\n",
				report.Window.Start, report.Window.End, report.ActivityCount, insights.FormatDuration(report.TotalMinutes))
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VALUE\tTIME\tACTUAL\tTARGET")
			for _, s := range report.Stats {
				actual := "-"
				if s.HasData {
					actual = fmt.Sprintf("%d%%", s.ActualPercentage)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\n", s.Value, insights.FormatDuration(s.TotalMinutes), actual, s.TargetPercentage)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&selector, "range", string(insights.RangeWeek), "Reporting window: day, week or month")
	return cmd
}

func (a *app) activityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Add, remove and list activities",
	}

	var (
		name     string
		values   []string
		date     string
		start    string
		end      string
		duration int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Log an activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := a.service()
			if err != nil {
				return err
			}
			now, _ := a.clock()
			if date == "" {
				date = domain.FormatDate(now())
			}
			names, err := domain.ValueNames(values)
			if err != nil {
				return err
			}
			input := tracker.ActivityInput{Name: name, Date: date, StartTime: start, Duration: duration, Values: names}
			if end != "" {
				input.EndTime = &end
			}
			activity, err := svc.LogActivity(cmd.Context(), localUser, input)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(activity)
			}
			fmt.Fprintf(a.out, "logged %s (%s)\n", activity.ID, insights.FormatDuration(activity.Duration))
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Activity name")
	add.Flags().StringArrayVar(&values, "value", nil, "Value the activity serves (repeatable)")
	add.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, defaults to today)")
	add.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	add.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	add.Flags().IntVar(&duration, "duration", 0, "Duration in minutes (taken from --end when omitted)")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("start")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.DeleteActivity(cmd.Context(), localUser, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %s\n", args[0])
			return nil
		},
	}

	var logDate, logValue string
	list := &cobra.Command{
		Use:   "log",
		Short: "Show one day's activities in start order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := a.service()
			if err != nil {
				return err
			}
			day, err := svc.ActivityLog(cmd.Context(), localUser, logDate, domain.ValueName(logValue))
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(day)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTART\tDURATION\tNAME\tVALUES")
			for _, act := range day.Activities {
				tags := make([]string, 0, len(act.Values))
				for _, v := range act.Values {
					tags = append(tags, string(v))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", act.ID, act.StartTime, insights.FormatDuration(act.Duration), act.Name, strings.Join(tags, ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\ntotal %s on %s\n", insights.FormatDuration(day.TotalMinutes), day.Date)
			return nil
		},
	}
	list.Flags().StringVar(&logDate, "date", "", "Date (YYYY-MM-DD, defaults to today)")
	list.Flags().StringVar(&logValue, "value", "", "Only list activities tagged with this value")

	cmd.AddCommand(add, rm, list)
	return cmd
}

func (a *app) prioritiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priorities",
		Short: "Adjust value priorities",
	}
	set := &cobra.Command{
		Use:   "set VALUE WEIGHT",
		Short: "Apply one weight and rescale every weight to sum to 100",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", args[1], err)
			}
			svc, _, err := a.service()
			if err != nil {
				return err
			}
			profile, err := svc.UpdatePriority(cmd.Context(), localUser, domain.ValueName(args[0]), weight)
			if err != nil {
				return err
			}
			return a.printProfile(profile)
		},
	}
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Give every value an equal share",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := a.service()
			if err != nil {
				return err
			}
			profile, err := svc.ResetPriorities(cmd.Context(), localUser)
			if err != nil {
				return err
			}
			return a.printProfile(profile)
		},
	}
	cmd.AddCommand(set, reset)
	return cmd
}

func (a *app) reflectCmd() *cobra.Command {
	var answers []string
	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Score reflection answers and suggest strategies",
		Long: `Score answers to the time-wealth reflection survey.

Each answer is QUESTION_ID=LABEL. Primary questions take an agreement label
("Strongly Agree" to "Strongly Disagree"); follow-up questions take Yes or No.
Run without answers to list the questions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := reflection.DefaultCatalog()
			if err != nil {
				return err
			}
			if len(answers) == 0 {
				return a.printQuestions(catalog)
			}

			parsed := make(reflection.Answers, len(answers))
			for _, raw := range answers {
				id, label, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("answer %q must be QUESTION_ID=LABEL", raw)
				}
				parsed[reflection.QuestionID(strings.TrimSpace(id))] = strings.TrimSpace(label)
			}
			result, err := catalog.Evaluate(parsed)
			if err != nil {
				return err
			}
			strategies := catalog.StrategiesFor(result.Persona.ID)
			if a.asJSON {
				return a.printJSON(map[string]any{"result": result, "strategies": strategies})
			}

			fmt.Fprintf(a.out, "score %d: %s\n%s\n", result.Score, result.Persona.Name, result.Persona.Description)
			if result.NeedsFollowUp {
				fmt.Fprintln(a.out, "\nSome answers disagree; answer the follow-up questions for a fuller picture.")
			}
			fmt.Fprintln(a.out, "\nRecommended strategies:")
			for _, s := range strategies {
				if s.Recommended {
					fmt.Fprintf(a.out, "  - %s: %s\n", s.Title, s.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "Answer as QUESTION_ID=LABEL (repeatable)")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the snapshot with a demo profile and generated history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, store, err := a.service()
			if err != nil {
				return err
			}
			now, _ := a.clock()
			if err := memory.Seed(cmd.Context(), store, localUser, now(), seed); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "seeded %d days of demo history into %s\n", memory.SeedDays, store.Path())
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for the generated history")
	return cmd
}

func (a *app) printProfile(profile *domain.ValueProfile) error {
	if a.asJSON {
		return a.printJSON(profile)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tPRIORITY")
	for _, v := range profile.Values {
		fmt.Fprintf(tw, "%s\t%s\n", v, strconv.FormatFloat(profile.Priority(v), 'f', -1, 64))
	}
	return tw.Flush()
}

func (a *app) printQuestions(catalog *reflection.Catalog) error {
	if a.asJSON {
		return a.printJSON(map[string]any{"primary": catalog.Questions.Primary, "follow_up": catalog.Questions.FollowUp})
	}
	for _, q := range catalog.Questions.Primary {
		fmt.Fprintf(a.out, "%s\t%s\n", q.ID, q.Question)
	}
	for _, q := range catalog.Questions.FollowUp {
		fmt.Fprintf(a.out, "%s\t%s (Yes/No)\n", q.ID, q.Question)
	}
	return nil
}
