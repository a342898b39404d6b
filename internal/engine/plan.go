package engine

import "GoldSentinel/internal/model"

// bothDivider separates the primary and secondary bodies for ModeBoth recipients.
const bothDivider = "\n\n----------------------------------------\n\n"

// BuildPlan selects the report(s) for each recipient, preserving recipient order.
// Recipients with an empty address are skipped.
func BuildPlan(reports []model.Report, recipients []model.Recipient, urgent bool) []model.Delivery {
	primary, hasPrimary := find(reports, model.LanguagePrimary)
	secondary, hasSecondary := find(reports, model.LanguageSecondary)

	plan := make([]model.Delivery, 0, len(recipients))
	for _, r := range recipients {
		if r.Address == "" {
			continue
		}
		d := model.Delivery{Recipient: r, Urgent: urgent}
		switch r.Mode {
		case model.ModePrimaryOnly:
			if !hasPrimary {
				continue
			}
			d.Subject, d.Body = primary.Subject, primary.Body()
		case model.ModeSecondaryOnly:
			if !hasSecondary {
				continue
			}
			d.Subject, d.Body = secondary.Subject, secondary.Body()
		case model.ModeBoth:
			switch {
			case hasPrimary && hasSecondary:
				d.Subject = primary.Subject
				d.Body = primary.Body() + bothDivider + secondary.Body()
			case hasPrimary:
				d.Subject, d.Body = primary.Subject, primary.Body()
			case hasSecondary:
				d.Subject, d.Body = secondary.Subject, secondary.Body()
			default:
				continue
			}
		default:
			continue
		}
		plan = append(plan, d)
	}
	return plan
}

func find(reports []model.Report, lang model.Language) (model.Report, bool) {
	for _, r := range reports {
		if r.Language == lang {
			return r, true
		}
	}
	return model.Report{}, false
}
