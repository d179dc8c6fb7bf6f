package models

// CreatePlatformRequest represents the request body for creating a platform.
type CreatePlatformRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Public      bool   `json:"public"`
	Description string `json:"description,omitempty"`
}

// UpdatePlatformRequest represents a partial platform update.
// Pointers distinguish "clear this field" from "field not provided".
type UpdatePlatformRequest struct {
	Name        *string `json:"name,omitempty"`
	Public      *bool   `json:"public,omitempty"`
	Description *string `json:"description,omitempty"`
	IconPath    *string `json:"iconPath,omitempty"`
	BannerPath  *string `json:"bannerPath,omitempty"`
}

// CreateCommunityRequest represents the request body for creating a community.
type CreateCommunityRequest struct {
	Name         string      `json:"name" binding:"required"`
	Slug         string      `json:"slug" binding:"required"`
	Description  string      `json:"description,omitempty"`
	MonthlyPrice int64       `json:"monthlyPrice"`
	PromoCodes   []PromoCode `json:"promoCodes,omitempty"`
	MentorIDs    []string    `json:"mentorIds,omitempty"`
	Order        int         `json:"order"`
}

// UpdateCommunityRequest represents a partial community update.
type UpdateCommunityRequest struct {
	Name         *string      `json:"name,omitempty"`
	Description  *string      `json:"description,omitempty"`
	MonthlyPrice *int64       `json:"monthlyPrice,omitempty"`
	PromoCodes   *[]PromoCode `json:"promoCodes,omitempty"`
	MentorIDs    *[]string    `json:"mentorIds,omitempty"`
	Order        *int         `json:"order,omitempty"`
}

// CreateMembershipTypeRequest represents the request body for creating a
// membership type. At least one of the two prices must be set; the service
// validates that.
type CreateMembershipTypeRequest struct {
	Name                  string      `json:"name" binding:"required"`
	PriceOneTime          *int64      `json:"priceOneTime,omitempty"`
	PriceInstallment      *int64      `json:"priceInstallment,omitempty"`
	InstallmentMonthCount int         `json:"installmentMonthCount,omitempty"`
	PromoCodes            []PromoCode `json:"promoCodes,omitempty"`
	Order                 int         `json:"order"`
}

// UpdateMembershipTypeRequest represents a partial membership type update.
type UpdateMembershipTypeRequest struct {
	Name                  *string      `json:"name,omitempty"`
	PriceOneTime          *int64       `json:"priceOneTime,omitempty"`
	PriceInstallment      *int64       `json:"priceInstallment,omitempty"`
	InstallmentMonthCount *int         `json:"installmentMonthCount,omitempty"`
	PromoCodes            *[]PromoCode `json:"promoCodes,omitempty"`
	Order                 *int         `json:"order,omitempty"`
}

// CreatePostRequest represents the request body for creating a feed post.
type CreatePostRequest struct {
	Title     string `json:"title,omitempty"`
	Body      string `json:"body" binding:"required"`
	ImagePath string `json:"imagePath,omitempty"`
}

// UpdatePostRequest represents a partial post update by its author.
type UpdatePostRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// CreateCommentRequest represents the request body for commenting on a post.
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// CreateThreadRequest represents the request body for opening a forum thread.
type CreateThreadRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body,omitempty"`
}

// CreateReplyRequest represents the request body for replying to a thread.
type CreateReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// SendChatMessageRequest represents the request body for a chat message.
type SendChatMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// CreateCourseRequest represents the request body for creating a course.
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

// CreateSectionRequest represents the request body for creating a section.
type CreateSectionRequest struct {
	Name        string `json:"name" binding:"required"`
	FreePreview bool   `json:"freePreview"`
	Order       int    `json:"order"`
}

// CreateLessonRequest represents the request body for creating a lesson.
type CreateLessonRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"` // "video", "article" or "quiz"
	Body        string `json:"body,omitempty"`
	VideoPath   string `json:"videoPath,omitempty"`
	FreePreview bool   `json:"freePreview"`
	Order       int    `json:"order"`
}

// QuoteRequest asks for the payable amount of a purchasable, optionally with
// a promo code applied. Exactly one of CommunityID / MembershipTypeID is set.
type QuoteRequest struct {
	PlatformID       string `json:"platformId" binding:"required"`
	CommunityID      string `json:"communityId,omitempty"`
	MembershipTypeID string `json:"membershipTypeId,omitempty"`
	PaymentType      string `json:"paymentType,omitempty"` // "one_time" or "installment" for membership types
	PromoCode        string `json:"promoCode,omitempty"`
}

// CheckoutRequest starts a checkout attempt. Same target rules as QuoteRequest.
type CheckoutRequest struct {
	PlatformID       string `json:"platformId" binding:"required"`
	CommunityID      string `json:"communityId,omitempty"`
	MembershipTypeID string `json:"membershipTypeId,omitempty"`
	PaymentType      string `json:"paymentType,omitempty"`
	PromoCode        string `json:"promoCode,omitempty"`
}
