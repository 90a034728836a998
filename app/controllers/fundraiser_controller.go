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

// FundraiserController handles campaign publication, listing, deletion, and
// the public stats view.
type FundraiserController struct {
	fundraisers *services.FundraiserService
}

func NewFundraiserController(fundraisers *services.FundraiserService) *FundraiserController {
	return &FundraiserController{fundraisers: fundraisers}
}

type createFundraiserInput struct {
	Title          string   `json:"title" validate:"required,min=3,max=200"`
	Description    string   `json:"description" validate:"required,min=10,max=5000"`
	TargetAmount   *float64 `json:"target_amount" validate:"nullable,gte=0"`
	UPIID          string   `json:"upi_id" validate:"required,min=1,max=100"`
	QRCodeImage    *string  `json:"qr_code_image" validate:"nullable,url"`
	Category       string   `json:"category" validate:"required,in=NGO,Religious,Institute"`
	ThumbnailImage *string  `json:"thumbnail_image" validate:"nullable,url"`
	BannerImage    *string  `json:"banner_image" validate:"nullable,url"`
	IsPublic       *bool    `json:"is_public"`
}

func (fc *FundraiserController) Create(c *ctx.Context) {
	actor := authz.ActorFromRequest(c.R)
	if actor == nil {
		c.Unauthorized()
		return
	}

	var in createFundraiserInput
	if !c.BindJSON(&in) {
		return
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	f, err := fc.fundraisers.Create(c.Context(), *actor, services.CreateFundraiserInput{
		Title:          in.Title,
		Description:    in.Description,
		TargetAmount:   in.TargetAmount,
		UPIID:          in.UPIID,
		QRCodeImage:    deref(in.QRCodeImage),
		Category:       models.Category(in.Category),
		ThumbnailImage: deref(in.ThumbnailImage),
		BannerImage:    deref(in.BannerImage),
		IsPublic:       isPublic,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Created(f)
}

func (fc *FundraiserController) List(c *ctx.Context) {
	var createdBy *primitive.ObjectID
	if hex := c.Query("created_by"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.Error(http.StatusBadRequest, "Invalid created_by id")
			return
		}
		createdBy = &id
	}

	page, limit := pageParams(c)
	items, total, err := fc.fundraisers.List(c.Context(),
		models.Category(c.Query("category")), createdBy, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Paginated(items, response.NewPagination(page, limit, total))
}

func (fc *FundraiserController) Show(c *ctx.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.NotFound()
		return
	}

	f, err := fc.fundraisers.Get(c.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(f)
}

func (fc *FundraiserController) Delete(c *ctx.Context) {
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

	if err := fc.fundraisers.Delete(c.Context(), *actor, id); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(map[string]any{"deleted": true})
}

func (fc *FundraiserController) Stats(c *ctx.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.NotFound()
		return
	}

	stats, err := fc.fundraisers.Stats(c.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(stats)
}

// Share redirects to the fundraiser page, falling back to the listing when
// the id is unknown. Share links circulate on social media long after a
// campaign may have been deleted.
func (fc *FundraiserController) Share(c *ctx.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/fundraisers")
		return
	}

	if _, err := fc.fundraisers.Get(c.Context(), id); err != nil {
		c.Redirect(http.StatusFound, "/fundraisers")
		return
	}
	c.Redirect(http.StatusFound, "/fundraisers/"+id.Hex())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
