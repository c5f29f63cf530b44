package delivery

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog_service/internal/domain"
	"catalog_service/internal/upload"
	"catalog_service/internal/usecase"
)

type ProductHandler struct {
	useCase      usecase.ProductUseCase
	galleryLimit int
	log          *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, galleryLimit int, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase:      uc,
		galleryLimit: galleryLimit,
		log:          logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/select", h.ListSelectedProducts)
		products.GET("/get/count", h.CountProducts)
		products.GET("/get/featured", h.FeaturedProducts)
		products.GET("/get/featured/:limit", h.FeaturedProducts)
		products.GET("/:id", h.GetProductByID)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.PUT("/gallery-images/:id", h.UpdateGallery)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// productForm binds product fields from a multipart form on create and from
// a JSON body on full update.
type productForm struct {
	Name            string  `form:"name" json:"name"`
	Description     string  `form:"description" json:"description"`
	RichDescription string  `form:"richDescription" json:"richDescription"`
	Image           string  `form:"image" json:"image"`
	Brand           string  `form:"brand" json:"brand"`
	Price           float64 `form:"price" json:"price"`
	Category        string  `form:"category" json:"category"`
	CountInStock    int     `form:"countInStock" json:"countInStock"`
	Rating          float64 `form:"rating" json:"rating"`
	NumReviews      int     `form:"numReviews" json:"numReviews"`
	IsFeatured      bool    `form:"isFeatured" json:"isFeatured"`
}

func (f productForm) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:            f.Name,
		Description:     f.Description,
		RichDescription: f.RichDescription,
		Image:           f.Image,
		Brand:           f.Brand,
		Price:           f.Price,
		Category:        f.Category,
		CountInStock:    f.CountInStock,
		Rating:          f.Rating,
		NumReviews:      f.NumReviews,
		IsFeatured:      f.IsFeatured,
	}
}

// requestBaseURL rebuilds the public origin of the inbound request; stored
// image URLs are resolvable against it.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

// openUpload adapts a multipart file header into the pipeline's file shape.
// The returned closer releases the underlying stream.
func openUpload(header *multipart.FileHeader) (*upload.File, func(), error) {
	content, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("could not open uploaded file '%s': %w", header.Filename, err)
	}
	file := &upload.File{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Content:   content,
	}
	return file, func() { content.Close() }, nil
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{}
	if categories := c.Query("categories"); categories != "" {
		filter.Categories = strings.Split(categories, ",")
	}

	products, err := h.useCase.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) ListSelectedProducts(c *gin.Context) {
	summaries, err := h.useCase.ListSelected(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list product summaries: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", summaries)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get product by ID %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Errorf("Failed to bind form for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var file *upload.File
	if header, err := c.FormFile("image"); err == nil {
		opened, closeFile, err := openUpload(header)
		if err != nil {
			h.log.Errorf("Failed to open uploaded image: %v", err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid upload: "+err.Error())
			return
		}
		defer closeFile()
		file = opened
	}

	created, err := h.useCase.CreateProduct(c.Request.Context(), form.toInput(), file, requestBaseURL(c))
	if err != nil {
		h.log.Errorf("Failed to create product '%s': %v", form.Name, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Errorf("Failed to bind body for update product ID %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.UpdateProduct(c.Request.Context(), id, form.toInput())
	if err != nil {
		h.log.Errorf("Failed to update product ID %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) UpdateGallery(c *gin.Context) {
	id := c.Param("id")

	mf, err := c.MultipartForm()
	if err != nil {
		h.log.Errorf("Failed to parse multipart form for gallery update ID %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	headers := mf.File["images"]
	if len(headers) > h.galleryLimit {
		h.log.Warnf("Gallery update for ID %s rejected: %d files exceeds limit %d", id, len(headers), h.galleryLimit)
		ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("At most %d gallery images are allowed", h.galleryLimit))
		return
	}

	files := make([]*upload.File, 0, len(headers))
	for _, header := range headers {
		file, closeFile, err := openUpload(header)
		if err != nil {
			h.log.Errorf("Failed to open gallery file: %v", err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid upload: "+err.Error())
			return
		}
		defer closeFile()
		files = append(files, file)
	}

	updated, err := h.useCase.UpdateGallery(c.Request.Context(), id, files, requestBaseURL(c))
	if err != nil {
		h.log.Errorf("Failed to update gallery for product ID %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update product gallery: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product gallery updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete product ID %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "The product was deleted", nil)
}

func (h *ProductHandler) CountProducts(c *gin.Context) {
	count, err := h.useCase.CountProducts(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to count products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to count products: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product count retrieved successfully", gin.H{"productCount": count})
}

func (h *ProductHandler) FeaturedProducts(c *gin.Context) {
	limit := int64(1)
	if limitStr := c.Param("limit"); limitStr != "" {
		parsed, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || parsed <= 0 {
			h.log.Warnf("Invalid featured limit parameter '%s', using default 1", limitStr)
		} else {
			limit = parsed
		}
	}

	products, err := h.useCase.FeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		h.log.Errorf("Failed to list featured products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve featured products: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Featured products retrieved successfully", products)
}
