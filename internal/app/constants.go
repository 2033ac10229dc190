package app

const (
	maxOrderItems = 100
	sniffLen      = 512

	msgInvalidCredentials    = "invalid email or password"
	msgHashSecretFailed      = "failed to process password"
	msgIssueTokenFailed      = "failed to issue session token"
	msgLookupAccountFailed   = "failed to look up account"
	msgInvalidBuyerID        = "buyer id must be positive"
	msgOrderItemsRequired    = "order must contain at least one item"
	msgTooManyOrderItemsFmt  = "order must not contain more than %d items"
	msgInvalidItemFmt        = "item %d: %v"
	msgProductNotFoundFmt    = "product %d not found"
	msgProductUnavailableFmt = "product %d is not available"
	msgOrderTotalOverflow    = "order total is too large"
	msgOrderNotFound         = "order not found"
	msgStatusNotRequestable  = "status %q cannot be requested"
	msgCancelNotAllowedFmt   = "order in status %s can no longer be canceled"
	msgTransitionNotAllowed  = "cannot move order from %s to %s"
	msgOrderClosedFmt        = "order is already %s"
	msgManagerRequired       = "only managers and owners may manage staff"
	msgOwnerRequired         = "only owners may remove staff"
	msgGrantNotAllowedFmt    = "role %s may not create %s accounts"
	msgCannotDeleteSelf      = "staff members cannot delete their own account"
	msgCannotDeleteOwner     = "owner accounts cannot be deleted"
	msgRevokeTokensFailed    = "failed to revoke staff tokens"
	msgInvalidRoleFmt        = "invalid role %q"
	msgNoImages              = "at least one image is required"
	msgTooManyImagesFmt      = "at most %d images may be uploaded at once"
	msgImageTooLargeFmt      = "image %s exceeds %d bytes"
	msgUnsupportedImageFmt   = "image %s has unsupported type %s"
	msgReadImageFailed       = "failed to read image"
	msgUploadImagesFailed    = "failed to store images"
	msgPriceNegative         = "price must not be negative"
	msgEmptyProductUpdate    = "no fields to update"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}
