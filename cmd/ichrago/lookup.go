package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ichrago/ichrago/internal/affordability"
	"github.com/ichrago/ichrago/internal/config"
	"github.com/ichrago/ichrago/internal/geography"
	"github.com/ichrago/ichrago/internal/rating"
	"github.com/ichrago/ichrago/internal/subsidy"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [zip]",
	Short: "Resolve a ZIP code to its county and rating area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, logger, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		resolver := geography.NewResolver(store, nil, logger)
		resolution, err := resolver.ResolveCounty(args[0])
		if err != nil {
			return err
		}

		if !resolution.Ambiguous {
			fmt.Fprintf(os.Stdout, "%s: %s county, %s (id %d), rating area %s\n",
				resolution.Zip, resolution.County.Name, resolution.County.State,
				resolution.County.ID, resolution.RatingAreaID)
			return nil
		}

		fmt.Fprintf(os.Stdout, "%s spans %d counties; quote requests must pick one by id:\n",
			resolution.Zip, len(resolution.Counties))
		for _, county := range resolution.Counties {
			fmt.Fprintf(os.Stdout, "  %d  %s county, %s\n", county.ID, county.Name, county.State)
		}
		return nil
	},
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price one plan for one person",
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, _ := cmd.Flags().GetString("plan")
		ratingArea, _ := cmd.Flags().GetString("rating-area")
		age, _ := cmd.Flags().GetInt("age")
		tobacco, _ := cmd.Flags().GetBool("tobacco")

		asOf, err := parseDateFlag(cmd, "as-of")
		if err != nil {
			return err
		}

		store, logger, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		calc := rating.NewPremiumCalculator(store, asOf, logger)
		premium, err := calc.PriceIndividual(planID, age, tobacco, ratingArea)
		if err != nil {
			return err
		}

		column := "non-tobacco"
		if tobacco {
			column = "tobacco"
		}
		fmt.Fprintf(os.Stdout, "%s in %s, age %d (%s): $%s/mo\n",
			planID, ratingArea, age, column, premium.StringFixed(2))
		return nil
	},
}

var subsidyCmd = &cobra.Command{
	Use:   "subsidy",
	Short: "Compute the premium tax credit for a household",
	RunE: func(cmd *cobra.Command, args []string) error {
		benchmark, err := decimalFlag(cmd, "benchmark")
		if err != nil {
			return err
		}
		income, err := decimalFlag(cmd, "income")
		if err != nil {
			return err
		}
		householdSize, _ := cmd.Flags().GetInt("household-size")
		age, _ := cmd.Flags().GetInt("age")

		policyFile, _ := cmd.Flags().GetString("policy-config")
		policy, err := config.LoadPolicy(policyFile)
		if err != nil {
			return err
		}

		engine := subsidy.NewSubsidyEngineWithConfig(policy, nil)
		result, err := engine.CalculateSubsidy(benchmark, income, householdSize, age)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Income is %s%% of the poverty line for a household of %d\n",
			result.FPLPercentage.StringFixed(1), householdSize)
		if !result.IsEligible {
			fmt.Fprintln(os.Stdout, "Not eligible for a premium tax credit")
			return nil
		}
		fmt.Fprintf(os.Stdout, "Applicable percentage:  %s%% of income\n", result.ApplicablePercentage.StringFixed(2))
		fmt.Fprintf(os.Stdout, "Expected contribution:  $%s/mo\n", result.ExpectedContribution.StringFixed(2))
		fmt.Fprintf(os.Stdout, "Monthly tax credit:     $%s\n", result.MonthlySubsidy.StringFixed(2))
		return nil
	},
}

var affordabilityCmd = &cobra.Command{
	Use:   "affordability",
	Short: "Test an ICHRA offer against the IRS safe harbor",
	RunE: func(cmd *cobra.Command, args []string) error {
		lcsp, err := decimalFlag(cmd, "lcsp")
		if err != nil {
			return err
		}
		contribution, err := decimalFlag(cmd, "contribution")
		if err != nil {
			return err
		}
		income, err := decimalFlag(cmd, "income")
		if err != nil {
			return err
		}

		policyFile, _ := cmd.Flags().GetString("policy-config")
		policy, err := config.LoadPolicy(policyFile)
		if err != nil {
			return err
		}

		solver := affordability.NewSolverWithConfig(policy, nil)
		result, err := solver.CheckAffordability(lcsp, contribution, income)
		if err != nil {
			return err
		}

		verdict := "NOT AFFORDABLE"
		if result.Affordable {
			verdict = "AFFORDABLE"
		}
		fmt.Fprintf(os.Stdout, "%s at the %s%% safe-harbor threshold\n", verdict, result.ThresholdPct.StringFixed(2))
		fmt.Fprintf(os.Stdout, "Employee share of reference plan: $%s/mo (cap $%s/mo, margin %s)\n",
			result.EmployeeShare.StringFixed(2), result.RequiredShare.StringFixed(2),
			result.Margin.StringFixed(2))

		if !result.Affordable {
			minimum, err := solver.MinimumContribution(lcsp, income)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Smallest affordable contribution: $%s/mo\n", minimum.StringFixed(2))
		}
		return nil
	},
}

// decimalFlag parses a required money flag.
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("--%s is required", name)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s %q is not a number: %w", name, raw, err)
	}
	return value, nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag; empty means now.
func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s %q is not a date (want YYYY-MM-DD): %w", name, raw, err)
	}
	return at, nil
}

func init() {
	addCommonFlags(resolveCmd)

	addCommonFlags(priceCmd)
	priceCmd.Flags().String("plan", "", "Plan identifier")
	priceCmd.Flags().String("rating-area", "", "Rating area identifier")
	priceCmd.Flags().Int("age", 0, "Age of the covered person")
	priceCmd.Flags().Bool("tobacco", false, "Price the tobacco column")
	priceCmd.Flags().String("as-of", "", "Quote date (YYYY-MM-DD, default today)")
	_ = priceCmd.MarkFlagRequired("plan")
	_ = priceCmd.MarkFlagRequired("rating-area")
	_ = priceCmd.MarkFlagRequired("age")

	subsidyCmd.Flags().String("benchmark", "", "Benchmark Silver monthly premium")
	subsidyCmd.Flags().String("income", "", "Annual household income")
	subsidyCmd.Flags().Int("household-size", 1, "Household size")
	subsidyCmd.Flags().Int("age", 0, "Age of the primary member")
	subsidyCmd.Flags().String("policy-config", "", "Policy table override YAML")
	_ = subsidyCmd.MarkFlagRequired("benchmark")
	_ = subsidyCmd.MarkFlagRequired("income")

	affordabilityCmd.Flags().String("lcsp", "", "Lowest-cost Silver self-only monthly premium")
	affordabilityCmd.Flags().String("contribution", "", "Offered monthly ICHRA contribution")
	affordabilityCmd.Flags().String("income", "", "Annual household income")
	affordabilityCmd.Flags().String("policy-config", "", "Policy table override YAML")
	_ = affordabilityCmd.MarkFlagRequired("lcsp")
	_ = affordabilityCmd.MarkFlagRequired("contribution")
	_ = affordabilityCmd.MarkFlagRequired("income")
}
