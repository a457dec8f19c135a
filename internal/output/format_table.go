package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ichrago/ichrago/internal/quote"
)

// TableFormatter renders a group quote as a console table with a per-member
// detail section.
type TableFormatter struct{}

// Name returns the registry name of this formatter
func (tf *TableFormatter) Name() string { return "table" }

// Format generates the console rendering of a group quote
func (tf *TableFormatter) Format(result *quote.GroupQuoteResult) (string, error) {
	var sb strings.Builder

	sb.WriteString("ICHRA GROUP QUOTE\n")
	sb.WriteString(strings.Repeat("=", 92) + "\n")
	sb.WriteString(fmt.Sprintf("Group:      %s (%s)\n", result.GroupName, result.GroupID))
	sb.WriteString(fmt.Sprintf("Quote ID:   %s\n", result.QuoteID))
	sb.WriteString(fmt.Sprintf("Quote date: %s\n", result.AsOf.Format("2006-01-02")))
	if desc := tf.describeFilters(result.Filters); desc != "" {
		sb.WriteString(fmt.Sprintf("Filters:    %s\n", desc))
	}
	sb.WriteString("\n")

	nameWidth := 22
	planWidth := 28
	numWidth := 12

	sb.WriteString("MEMBERS\n")
	sb.WriteString(strings.Repeat("-", 92) + "\n")
	sb.WriteString(fmt.Sprintf("%-*s %-*s %*s %*s %*s\n",
		nameWidth, "Member",
		planWidth, "Best Plan",
		numWidth, "Premium",
		numWidth, "Subsidy",
		numWidth, "Member Pays"))
	sb.WriteString(strings.Repeat("-", 92) + "\n")
	for i := range result.Members {
		sb.WriteString(tf.memberRow(&result.Members[i], nameWidth, planWidth, numWidth))
	}
	for i := range result.Errors {
		me := &result.Errors[i]
		sb.WriteString(fmt.Sprintf("%-*s %s\n",
			nameWidth, tf.truncate(me.MemberName, nameWidth),
			"FAILED ("+string(me.Stage)+")"))
	}
	sb.WriteString(strings.Repeat("=", 92) + "\n")

	if len(result.Members) > 0 {
		sb.WriteString("\nMEMBER DETAIL\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for i := range result.Members {
			tf.writeMemberDetail(&sb, &result.Members[i])
		}
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\nFAILED MEMBERS\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, me := range result.Errors {
			sb.WriteString(fmt.Sprintf("  %s (%s): %s: %s\n", me.MemberName, me.MemberID, me.Stage, me.Message))
		}
	}

	tf.writeSummary(&sb, result)

	if len(result.Warnings) > 0 {
		sb.WriteString("\nDATA WARNINGS\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", w.Code, w.Message))
		}
	}

	return sb.String(), nil
}

// memberRow formats the one-line overview of a quoted member
func (tf *TableFormatter) memberRow(mq *quote.MemberQuote, nameWidth, planWidth, numWidth int) string {
	best := mq.BestPlan
	if best == nil {
		return fmt.Sprintf("%-*s %s\n", nameWidth, tf.truncate(mq.MemberName, nameWidth), "no plan")
	}
	plan := fmt.Sprintf("%s (%s)", best.Plan.Name, best.Plan.MetalLevel)
	return fmt.Sprintf("%-*s %-*s %*s %*s %*s\n",
		nameWidth, tf.truncate(mq.MemberName, nameWidth),
		planWidth, tf.truncate(plan, planWidth),
		numWidth, money(best.GrossPremium),
		numWidth, money(best.MonthlySubsidy),
		numWidth, money(best.MemberCost))
}

func (tf *TableFormatter) writeMemberDetail(sb *strings.Builder, mq *quote.MemberQuote) {
	sb.WriteString(fmt.Sprintf("\n%s (%s) - %s county, rating area %s\n",
		mq.MemberName, mq.MemberID, mq.CountyName, mq.RatingAreaID))
	sb.WriteString(fmt.Sprintf("  Contribution offered: %s/mo\n", money(mq.Contribution)))

	if mq.Benchmark != nil {
		sb.WriteString(fmt.Sprintf("  Benchmark Silver:     %s at %s\n", mq.Benchmark.PlanID, money(mq.Benchmark.Premium)))
	}
	if mq.Subsidy != nil {
		if mq.Subsidy.IsEligible {
			sb.WriteString(fmt.Sprintf("  Premium tax credit:   %s/mo (%s%% of poverty line)\n",
				money(mq.Subsidy.MonthlySubsidy), mq.Subsidy.FPLPercentage.StringFixed(1)))
		} else {
			sb.WriteString(fmt.Sprintf("  Premium tax credit:   not eligible (%s%% of poverty line)\n",
				mq.Subsidy.FPLPercentage.StringFixed(1)))
		}
	}

	if best := mq.BestPlan; best != nil {
		sb.WriteString(fmt.Sprintf("  Best plan:            %s %s %s, gross %s, net %s, member pays %s\n",
			best.Plan.ID, best.Plan.Carrier, best.Plan.MetalLevel,
			money(best.GrossPremium), money(best.NetPremium), money(best.MemberCost)))
	}
	sb.WriteString(fmt.Sprintf("  Candidates:           %d on-market, %d off-market\n",
		len(mq.OnMarket), len(mq.OffMarket)))

	if !mq.EmployerMonthlySavings.IsZero() || !mq.MemberMonthlySavings.IsZero() {
		sb.WriteString(fmt.Sprintf("  Versus group plan:    employer %s/mo, member %s/mo\n",
			signedMoney(mq.EmployerMonthlySavings), signedMoney(mq.MemberMonthlySavings)))
	}
	for _, w := range mq.Warnings {
		sb.WriteString(fmt.Sprintf("  Warning:              %s\n", w.Message))
	}
}

func (tf *TableFormatter) writeSummary(sb *strings.Builder, result *quote.GroupQuoteResult) {
	s := result.Summary
	sb.WriteString("\nGROUP SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 92) + "\n")
	sb.WriteString(fmt.Sprintf("  Members quoted:          %d\n", s.MembersQuoted))
	if s.MembersFailed > 0 {
		sb.WriteString(fmt.Sprintf("  Members failed:          %d\n", s.MembersFailed))
	}
	sb.WriteString(fmt.Sprintf("  Employer monthly total:  %s (group plan was %s, change %s)\n",
		money(s.EmployerMonthlyTotal), money(s.EmployerPreviousTotal), signedMoney(s.EmployerMonthlySavings)))
	sb.WriteString(fmt.Sprintf("  Employee monthly total:  %s (group plan was %s, change %s)\n",
		money(s.EmployeeMonthlyTotal), money(s.EmployeePreviousTotal), signedMoney(s.EmployeeMonthlySavings)))
	sb.WriteString(fmt.Sprintf("  Monthly tax credits:     %s\n", money(s.TotalMonthlySubsidy)))
}

// describeFilters renders the active filters on one line, or empty when none
func (tf *TableFormatter) describeFilters(f quote.Filters) string {
	if f.IsZero() {
		return ""
	}
	var parts []string
	if len(f.Carriers) > 0 {
		parts = append(parts, "carriers="+strings.Join(f.Carriers, ","))
	}
	if len(f.MetalLevels) > 0 {
		levels := make([]string, len(f.MetalLevels))
		for i, l := range f.MetalLevels {
			levels[i] = string(l)
		}
		parts = append(parts, "metal="+strings.Join(levels, ","))
	}
	if f.Market != quote.MarketAny {
		parts = append(parts, "market="+f.Market)
	}
	return strings.Join(parts, " ")
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// money formats a decimal as a dollar amount
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// signedMoney keeps an explicit sign so savings and increases read
// differently. Savings are positive.
func signedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "+$" + d.StringFixed(2)
}
