package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commonroom-backend-go/internal/core"
	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/middleware"
	"commonroom-backend-go/internal/storage"
	"commonroom-backend-go/pkg/cache"
)

// Services bundles everything SetupRoutes wires into handlers.
type Services struct {
	User           core.UserService
	Platform       core.PlatformService
	Community      core.CommunityService
	MembershipType core.MembershipTypeService
	Post           core.PostService
	Forum          core.ForumService
	Chat           core.ChatService
	Course         core.CourseService
	Checkout       core.CheckoutService
	Storage        *storage.Service
	URLCache       cache.Cache
}

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (Logging, Recovery, CORS) is applied to the
// router before this is called, in main.go.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, svcs Services) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized; routes cannot be secured.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)

	authHandler := NewAuthHandler(svcs.User)
	userHandler := NewUserHandler(svcs.User)
	platformHandler := NewPlatformHandler(svcs.Platform)
	communityHandler := NewCommunityHandler(svcs.Community, svcs.MembershipType)
	postHandler := NewPostHandler(svcs.Post)
	forumHandler := NewForumHandler(svcs.Forum)
	chatHandler := NewChatHandler(svcs.Chat)
	courseHandler := NewCourseHandler(svcs.Course)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout)
	mediaHandler := NewMediaHandler(svcs.Storage, svcs.URLCache)

	// Session-level endpoints live directly under /api.
	apiRoot := router.Group("/api")
	{
		apiRoot.POST("/auth/logout", authHandler.Logout)
		apiRoot.GET("/video/sign", authMW.VerifyToken(), mediaHandler.SignVideoURL)
	}

	apiV1 := router.Group("/api/v1")
	{
		usersGroup := apiV1.Group("/users")
		{
			usersGroup.POST("/initialize", authMW.VerifyToken(), authHandler.InitializeUserProfile)
			usersGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
		}

		apiV1.POST("/media/upload", authMW.VerifyToken(), mediaHandler.Upload)

		// Checkout endpoints. The webhook is public: the gateway authenticates
		// itself with the payload signature, verified in the service.
		checkoutGroup := apiV1.Group("/checkout")
		{
			checkoutGroup.POST("/quote", checkoutHandler.Quote)
			checkoutGroup.POST("", authMW.VerifyToken(), checkoutHandler.StartCheckout)
			checkoutGroup.POST("/notify", checkoutHandler.HandleNotification)
		}
		apiV1.GET("/payments/me", authMW.VerifyToken(), checkoutHandler.ListMyPayments)

		platformsGroup := apiV1.Group("/platforms")
		{
			platformsGroup.POST("", authMW.VerifyToken(), platformHandler.CreatePlatform)
			platformsGroup.GET("/slug/:slug", authMW.OptionalAuth(), platformHandler.GetPlatformBySlug)
			platformsGroup.GET("/:platformId", authMW.OptionalAuth(), platformHandler.GetPlatform)
			platformsGroup.PUT("/:platformId", authMW.VerifyToken(), platformHandler.UpdatePlatform)
			platformsGroup.DELETE("/:platformId", authMW.VerifyToken(), platformHandler.DeletePlatform)

			platformsGroup.POST("/:platformId/join", authMW.VerifyToken(), platformHandler.JoinPlatform)
			platformsGroup.GET("/:platformId/membership", authMW.VerifyToken(), platformHandler.GetMyMembership)
			platformsGroup.GET("/:platformId/members", authMW.VerifyToken(), platformHandler.ListMembers)
			platformsGroup.GET("/:platformId/payments", authMW.VerifyToken(), checkoutHandler.ListPlatformPayments)

			communitiesGroup := platformsGroup.Group("/:platformId/communities")
			{
				communitiesGroup.POST("", authMW.VerifyToken(), communityHandler.CreateCommunity)
				communitiesGroup.GET("", communityHandler.ListCommunities)
				communitiesGroup.GET("/:communityId", authMW.OptionalAuth(), communityHandler.GetCommunity)
				communitiesGroup.PUT("/:communityId", authMW.VerifyToken(), communityHandler.UpdateCommunity)
				communitiesGroup.DELETE("/:communityId", authMW.VerifyToken(), communityHandler.DeleteCommunity)

				coursesGroup := communitiesGroup.Group("/:communityId/courses")
				{
					coursesGroup.POST("", authMW.VerifyToken(), courseHandler.CreateCourse)
					coursesGroup.GET("", courseHandler.ListCourses)
					coursesGroup.GET("/:courseId", courseHandler.GetCourse)
					coursesGroup.DELETE("/:courseId", authMW.VerifyToken(), courseHandler.DeleteCourse)

					coursesGroup.POST("/:courseId/sections", authMW.VerifyToken(), courseHandler.CreateSection)
					coursesGroup.GET("/:courseId/sections", courseHandler.ListSections)

					sectionsGroup := coursesGroup.Group("/:courseId/sections/:sectionId")
					{
						sectionsGroup.POST("/lessons", authMW.VerifyToken(), courseHandler.CreateLesson)
						sectionsGroup.GET("/lessons", courseHandler.ListLessons)
						sectionsGroup.GET("/lessons/:lessonId", authMW.OptionalAuth(), courseHandler.GetLessonContent)
					}
				}
			}

			membershipTypesGroup := platformsGroup.Group("/:platformId/membership-types")
			{
				membershipTypesGroup.POST("", authMW.VerifyToken(), communityHandler.CreateMembershipType)
				membershipTypesGroup.GET("", communityHandler.ListMembershipTypes)
				membershipTypesGroup.GET("/:membershipTypeId", communityHandler.GetMembershipType)
				membershipTypesGroup.PUT("/:membershipTypeId", authMW.VerifyToken(), communityHandler.UpdateMembershipType)
				membershipTypesGroup.DELETE("/:membershipTypeId", authMW.VerifyToken(), communityHandler.DeleteMembershipType)
			}

			postsGroup := platformsGroup.Group("/:platformId/posts")
			{
				postsGroup.GET("", authMW.OptionalAuth(), postHandler.ListFeed)
				postsGroup.POST("", authMW.VerifyToken(), postHandler.CreatePost)
				postsGroup.PUT("/:postId", authMW.VerifyToken(), postHandler.UpdatePost)
				postsGroup.DELETE("/:postId", authMW.VerifyToken(), postHandler.DeletePost)
				postsGroup.POST("/:postId/pin", authMW.VerifyToken(), postHandler.SetPinned)
				postsGroup.POST("/:postId/like", authMW.VerifyToken(), postHandler.LikePost)
				postsGroup.POST("/:postId/comments", authMW.VerifyToken(), postHandler.CreateComment)
				postsGroup.GET("/:postId/comments", authMW.OptionalAuth(), postHandler.ListComments)
			}

			threadsGroup := platformsGroup.Group("/:platformId/threads")
			{
				threadsGroup.GET("", authMW.OptionalAuth(), forumHandler.ListThreads)
				threadsGroup.POST("", authMW.VerifyToken(), forumHandler.CreateThread)
				threadsGroup.GET("/:threadId", authMW.OptionalAuth(), forumHandler.GetThread)
				threadsGroup.POST("/:threadId/replies", authMW.VerifyToken(), forumHandler.CreateReply)
				threadsGroup.GET("/:threadId/replies", authMW.OptionalAuth(), forumHandler.ListReplies)
			}

			chatGroup := platformsGroup.Group("/:platformId/chat", authMW.VerifyToken())
			{
				chatGroup.POST("", chatHandler.SendMessage)
				chatGroup.GET("", chatHandler.ListRecent)
				chatGroup.GET("/stream", chatHandler.Stream)
			}
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured successfully under /api, /api/v1 and /health.")
}
