package services

import (
	"github.com/ghuser/workcosts/pkg/app"
	domainsvcs "github.com/ghuser/workcosts/services/costs/domain/services"
	"github.com/ghuser/workcosts/services/costs/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Costs *CostsService
}

// New wires the costs services with infrastructure from the Application
// container. currency and columns come from the settings context.
func New(a *app.Application, currency CurrencySource, columns SummableColumnsSource) *Services {
	var opts []domainsvcs.PolicyOption
	if a.Config != nil && a.Config.CostsExplicitNulls {
		opts = append(opts, domainsvcs.WithExplicitNulls())
	}

	return &Services{
		Costs: NewCostsService(Deps{
			WorkItems:     postgres.NewWorkItemRepository(a.Db),
			Projects:      postgres.NewProjectRepository(a.Db),
			Entries:       postgres.NewEntryRepository(a.Db),
			CostTypes:     postgres.NewCostTypeRepository(a.Db),
			Users:         postgres.NewUserRepository(a.Db),
			Resolver:      NewRoleResolver(postgres.NewMembershipRepository(a.Db), a.Logger),
			Currency:      currency,
			Columns:       columns,
			Log:           a.Logger,
			PolicyOptions: opts,
		}),
	}
}
