package output

import (
	"encoding/csv"
	"strings"

	"github.com/ichrago/ichrago/internal/quote"
)

// CSVFormatter renders a group quote as CSV, one row per member
type CSVFormatter struct{}

func (cf *CSVFormatter) Name() string { return "csv" }

// Format generates CSV output for a group quote result
func (cf *CSVFormatter) Format(result *quote.GroupQuoteResult) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Member ID",
		"Member",
		"Status",
		"County",
		"Rating Area",
		"Best Plan ID",
		"Best Plan",
		"Carrier",
		"Metal Level",
		"Market",
		"Gross Premium",
		"Monthly Subsidy",
		"Net Premium",
		"Contribution Used",
		"Member Cost",
		"Previous Employer",
		"Previous Member",
		"Employer Savings",
		"Member Savings",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i := range result.Members {
		if err := writer.Write(cf.memberRow(&result.Members[i])); err != nil {
			return "", err
		}
	}
	for i := range result.Errors {
		if err := writer.Write(cf.errorRow(&result.Errors[i])); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// memberRow formats one quoted member
func (cf *CSVFormatter) memberRow(mq *quote.MemberQuote) []string {
	row := []string{
		mq.MemberID,
		mq.MemberName,
		"quoted",
		mq.CountyName,
		mq.RatingAreaID,
	}

	best := mq.BestPlan
	if best == nil {
		return append(row, "", "", "", "", "", "", "", "", "", "", "", "", "", "")
	}

	market := "off"
	if best.Plan.OnMarket {
		market = "on"
	}
	return append(row,
		best.Plan.ID,
		best.Plan.Name,
		best.Plan.Carrier,
		string(best.Plan.MetalLevel),
		market,
		best.GrossPremium.StringFixed(2),
		best.MonthlySubsidy.StringFixed(2),
		best.NetPremium.StringFixed(2),
		best.ContributionUsed.StringFixed(2),
		best.MemberCost.StringFixed(2),
		mq.Previous.EmployerMonthly.StringFixed(2),
		mq.Previous.MemberMonthly.StringFixed(2),
		mq.EmployerMonthlySavings.StringFixed(2),
		mq.MemberMonthlySavings.StringFixed(2),
	)
}

// errorRow formats one failed member; the status column carries the failed
// stage and the county column the message.
func (cf *CSVFormatter) errorRow(me *quote.MemberError) []string {
	return []string{
		me.MemberID,
		me.MemberName,
		"failed:" + string(me.Stage),
		me.Message,
		"", "", "", "", "", "", "", "", "", "", "", "", "", "", "",
	}
}
