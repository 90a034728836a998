package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/sahyog/app/authz"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/services"
	"github.com/shashiranjanraj/sahyog/pkg/ctx"
	"github.com/shashiranjanraj/sahyog/pkg/response"
)

// DonationController handles self-reported payment claims and the
// organization-side review workflow.
type DonationController struct {
	donations *services.DonationService
}

func NewDonationController(donations *services.DonationService) *DonationController {
	return &DonationController{donations: donations}
}

type submitDonationInput struct {
	FundraiserID  string  `json:"fundraiser_id" validate:"required"`
	DonorName     string  `json:"donor_name" validate:"required,min=2,max=100"`
	Amount        float64 `json:"amount" validate:"required,numeric,gte=1"`
	TransactionID string  `json:"transaction_id" validate:"required,min=3,max=100"`
}

func (dc *DonationController) Submit(c *ctx.Context) {
	var in submitDonationInput
	if !c.BindJSON(&in) {
		return
	}

	fid, err := primitive.ObjectIDFromHex(in.FundraiserID)
	if err != nil {
		c.Error(http.StatusNotFound, "Fundraiser not found")
		return
	}

	// Anonymous submissions are allowed; actor is nil when no valid token
	// accompanied the request.
	actor := authz.ActorFromRequest(c.R)

	d, err := dc.donations.Submit(c.Context(), actor, services.SubmitDonationInput{
		FundraiserID:  fid,
		DonorName:     in.DonorName,
		Amount:        in.Amount,
		TransactionID: in.TransactionID,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Created(d)
}

func (dc *DonationController) List(c *ctx.Context) {
	actor := authz.ActorFromRequest(c.R)
	if actor == nil {
		c.Unauthorized()
		return
	}

	var fundraiserID *primitive.ObjectID
	if hex := c.Query("fundraiser_id"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.Error(http.StatusBadRequest, "Invalid fundraiser_id")
			return
		}
		fundraiserID = &id
	}

	page, limit := pageParams(c)
	items, total, err := dc.donations.List(c.Context(), *actor, fundraiserID, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Paginated(items, response.NewPagination(page, limit, total))
}

func (dc *DonationController) Show(c *ctx.Context) {
	actor := authz.ActorFromRequest(c.R)
	if actor == nil {
		c.Unauthorized()
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.NotFound()
		return
	}

	d, err := dc.donations.Get(c.Context(), *actor, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(d)
}

type setStatusInput struct {
	Status string `json:"status" validate:"required,in=approved,rejected"`
}

// SetStatus decides a pending donation. Approved amounts become part of the
// fundraiser's public total from this point on.
func (dc *DonationController) SetStatus(c *ctx.Context) {
	actor := authz.ActorFromRequest(c.R)
	if actor == nil {
		c.Unauthorized()
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.NotFound()
		return
	}

	var in setStatusInput
	if !c.BindJSON(&in) {
		return
	}
	status, _ := models.ParseTerminalStatus(in.Status)

	d, err := dc.donations.SetStatus(c.Context(), *actor, id, status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(d)
}
