package handlers

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/workcosts/services/costs/domain/models"
	domainsvcs "github.com/ghuser/workcosts/services/costs/domain/services"
)

// LinkResponse is a hypermedia link.
type LinkResponse struct {
	Href  string `json:"href"            example:"/work_packages/123e4567-e89b-12d3-a456-426614174000/cost_entries/new"`
	Type  string `json:"type,omitempty"  example:"text/html"`
	Title string `json:"title,omitempty" example:"Log costs on Build bridge"`
} // @name Link

// CostTypeResponse describes a cost type.
type CostTypeResponse struct {
	ID         uuid.UUID `json:"id"          example:"123e4567-e89b-12d3-a456-426614174000"`
	Name       string    `json:"name"        example:"Travel"`
	Unit       string    `json:"unit"        example:"trip"`
	UnitPlural string    `json:"unit_plural" example:"trips"`
} // @name CostType

// TypeCostResponse is one row of a costs-by-type breakdown.
type TypeCostResponse struct {
	CostType   CostTypeResponse `json:"cost_type"`
	SpentUnits string           `json:"spent_units" example:"2 trips"`
	Costs      string           `json:"costs"       example:"13.00 EUR"`
} // @name TypeCost

// CostFieldResponse is one cost field of a work item. Value is null when the
// field is hidden and explicit nulls are rendered.
type CostFieldResponse struct {
	Name  string  `json:"name"  example:"laborCosts"`
	Own   bool    `json:"own"   example:"false"`
	Value *string `json:"value" example:"250.00 EUR"`
	// Breakdown is set, possibly empty, only on a visible costsByType field.
	Breakdown *[]TypeCostResponse `json:"breakdown,omitempty"`
} // @name CostField

// WorkItemCostsResponse is the cost extension of a work package.
type WorkItemCostsResponse struct {
	WorkPackageID uuid.UUID               `json:"work_package_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Fields        []CostFieldResponse     `json:"fields"`
	Links         map[string]LinkResponse `json:"_links"`
} // @name WorkItemCosts

// CostsByTypeResponse is the summarized costs-by-type resource.
type CostsByTypeResponse struct {
	WorkPackageID uuid.UUID          `json:"work_package_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Own           bool               `json:"own"             example:"false"`
	Elements      []TypeCostResponse `json:"elements"`
} // @name CostsByType

// CostEntryResponse is a cost log entry. Costs is null when the user may not see amounts.
type CostEntryResponse struct {
	ID            uuid.UUID        `json:"id"              example:"123e4567-e89b-12d3-a456-426614174000"`
	WorkPackageID uuid.UUID        `json:"work_package_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	UserID        uuid.UUID        `json:"user_id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	CostType      CostTypeResponse `json:"cost_type"`
	Units         string           `json:"units"           example:"2"`
	SpentUnits    string           `json:"spent_units"     example:"2 trips"`
	Costs         *string          `json:"costs"           example:"13.00 EUR"`
	Comments      string           `json:"comments"        example:"Site visit"`
	SpentOn       string           `json:"spent_on"        example:"2026-01-15"`
} // @name CostEntry

// TimeEntryResponse is a time log entry. HourlyRate and Costs are null when
// the user may not see rates.
type TimeEntryResponse struct {
	ID            uuid.UUID `json:"id"              example:"123e4567-e89b-12d3-a456-426614174000"`
	WorkPackageID uuid.UUID `json:"work_package_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	UserID        uuid.UUID `json:"user_id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Hours         string    `json:"hours"           example:"2.5"`
	Activity      string    `json:"activity"        example:"Design"`
	SpentOn       string    `json:"spent_on"        example:"2026-01-15"`
	HourlyRate    *string   `json:"hourly_rate"     example:"50.00 EUR"`
	Costs         *string   `json:"costs"           example:"125.00 EUR"`
} // @name TimeEntry

// SumResponse is one summed cost column.
type SumResponse struct {
	Name  string  `json:"name"  example:"overallCosts"`
	Own   bool    `json:"own"   example:"false"`
	Value *string `json:"value" example:"1268.00 EUR"`
} // @name Sum

// SumsResponse lists the summable cost columns of a project's work packages.
type SumsResponse struct {
	ProjectID uuid.UUID     `json:"project_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Sums      []SumResponse `json:"sums"`
} // @name Sums

// SchemaFieldResponse describes one cost field of the work package schema.
type SchemaFieldResponse struct {
	Name       string `json:"name"                  example:"laborCosts"`
	Type       string `json:"type"                  example:"String"`
	Required   bool   `json:"required"              example:"false"`
	Writable   bool   `json:"writable"              example:"false"`
	NameSource string `json:"name_source,omitempty" example:"spent_units"`
} // @name SchemaField

// SchemaResponse is the cost part of the work package and sums schemas.
type SchemaResponse struct {
	ProjectID uuid.UUID             `json:"project_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Fields    []SchemaFieldResponse `json:"fields"`
	Sums      []SchemaFieldResponse `json:"sums"`
} // @name CostsSchema

const dateLayout = "2006-01-02"

func toCostType(ct models.CostType) CostTypeResponse {
	return CostTypeResponse{ID: ct.ID, Name: ct.Name, Unit: ct.UnitName, UnitPlural: ct.UnitPluralName}
}

func toBreakdown(types []domainsvcs.FormattedTypeCost) []TypeCostResponse {
	out := make([]TypeCostResponse, 0, len(types))
	for _, t := range types {
		out = append(out, TypeCostResponse{
			CostType:   toCostType(t.CostType),
			SpentUnits: t.SpentUnits,
			Costs:      t.Formatted,
		})
	}
	return out
}

func toField(fv domainsvcs.FieldValue) CostFieldResponse {
	out := CostFieldResponse{Name: string(fv.Field), Own: fv.Own}
	if fv.Null {
		return out
	}
	if fv.Field == domainsvcs.FieldCostsByType {
		breakdown := toBreakdown(fv.Breakdown)
		out.Breakdown = &breakdown
		return out
	}
	v := fv.Formatted
	out.Value = &v
	return out
}

func toWorkItemCosts(rep *domainsvcs.Representation) WorkItemCostsResponse {
	out := WorkItemCostsResponse{
		WorkPackageID: rep.WorkItemID,
		Fields:        make([]CostFieldResponse, 0, len(rep.Fields)),
		Links:         map[string]LinkResponse{},
	}
	for _, fv := range rep.Fields {
		out.Fields = append(out.Fields, toField(fv))
		if fv.Field == domainsvcs.FieldCostsByType && !fv.Null {
			out.Links[string(domainsvcs.FieldCostsByType)] = LinkResponse{
				Href: fmt.Sprintf("/api/work_packages/%s/summarized_costs_by_type", rep.WorkItemID),
			}
		}
	}
	for _, l := range rep.Links {
		out.Links[string(l)] = linkFor(l, rep)
	}
	return out
}

func linkFor(l domainsvcs.Link, rep *domainsvcs.Representation) LinkResponse {
	switch l {
	case domainsvcs.LinkLogCosts:
		return LinkResponse{
			Href:  fmt.Sprintf("/work_packages/%s/cost_entries/new", rep.WorkItemID),
			Type:  "text/html",
			Title: "Log costs on " + rep.Subject,
		}
	case domainsvcs.LinkShowCosts:
		q := url.Values{}
		q.Set("fields[]", "WorkPackageId")
		q.Set("operators[WorkPackageId]", "=")
		q.Set("values[WorkPackageId]", rep.WorkItemID.String())
		q.Set("set_filter", "1")
		return LinkResponse{
			Href:  fmt.Sprintf("/projects/%s/cost_reports?%s", rep.ProjectID, q.Encode()),
			Type:  "text/html",
			Title: "Show cost entries",
		}
	default:
		return LinkResponse{}
	}
}

func toCostEntry(v domainsvcs.VisibleCostEntry) CostEntryResponse {
	out := CostEntryResponse{
		ID:            v.Entry.ID,
		WorkPackageID: v.Entry.WorkItemID,
		UserID:        v.Entry.UserID,
		CostType:      toCostType(v.CostType),
		Units:         v.Entry.Units.String(),
		SpentUnits:    v.CostType.SpentUnits(v.Entry.Units),
		Comments:      v.Entry.Comments,
		SpentOn:       v.Entry.SpentOn.Format(dateLayout),
	}
	if v.AmountVisible {
		c := v.Formatted
		out.Costs = &c
	}
	return out
}

func toTimeEntry(v domainsvcs.VisibleTimeEntry) TimeEntryResponse {
	out := TimeEntryResponse{
		ID:            v.Entry.ID,
		WorkPackageID: v.Entry.WorkItemID,
		UserID:        v.Entry.UserID,
		Hours:         v.Entry.Hours.String(),
		Activity:      v.Entry.Activity,
		SpentOn:       v.Entry.SpentOn.Format(dateLayout),
	}
	if v.RateVisible {
		rate, cost := v.FormattedRate, v.FormattedCost
		out.HourlyRate, out.Costs = &rate, &cost
	}
	return out
}

func toSchemaFields(fields []domainsvcs.SchemaField) []SchemaFieldResponse {
	out := make([]SchemaFieldResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, SchemaFieldResponse{
			Name:       string(f.Field),
			Type:       f.Type,
			Required:   f.Required,
			Writable:   f.Writable,
			NameSource: f.NameSource,
		})
	}
	return out
}

// nowUTC is stubbed by handler tests.
var nowUTC = func() time.Time { return time.Now().UTC() }
