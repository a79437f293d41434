package services

const (
	PlanStarter  = "starter"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

func IsValidPlan(plan string) bool {
	switch plan {
	case PlanStarter, PlanPro, PlanBusiness:
		return true
	}
	return false
}
