package client

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Credentials is the body of login and registration requests
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CartItemInput adds or updates a cart position. Quantity 0 on update removes it.
type CartItemInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Size      string `json:"size" validate:"required,oneof=s m l xl"`
}

// OrderInput is the checkout form
type OrderInput struct {
	ShippingStreet     string  `json:"shipping_street" validate:"required"`
	ShippingCity       string  `json:"shipping_city" validate:"required"`
	ShippingPostalCode string  `json:"shipping_postal_code" validate:"required"`
	ShippingCountry    string  `json:"shipping_country" validate:"required"`
	ShippingMethod     string  `json:"shipping_method" validate:"required,oneof=pochta cdek"`
	ShippingCost       float64 `json:"shipping_cost" validate:"gte=0"`
	ReferralCode       string  `json:"referral_code,omitempty"`
	UsePoints          *int    `json:"use_points,omitempty" validate:"omitempty,gte=0"`
}

// ReviewInput creates or edits a review
type ReviewInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment,omitempty" validate:"max=1000"`
}

// ProductQuery selects a catalog page
type ProductQuery struct {
	Page        int
	PerPage     int
	CategoryIDs []int64
	Search      string
	Sort        string // asc, desc, or empty for popularity
}

// Values encodes the query the way the API expects it
func (q ProductQuery) Values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if len(q.CategoryIDs) > 0 {
		ids := make([]string, len(q.CategoryIDs))
		for i, id := range q.CategoryIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		values.Set("category_id", strings.Join(ids, ","))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return values
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// check validates a request body before it is sent
func (c *Client) check(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return &ValidationError{Messages: messages}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
