package lifecycle

import "github.com/cochaviz/vmc/internal/bus"

var (
	debugd = bus.Endpoint{
		Service:   "org.chromium.debugd",
		Path:      "/org/chromium/debugd",
		Interface: "org.chromium.debugd",
	}
	componentUpdater = bus.Endpoint{
		Service:   "org.chromium.ComponentUpdaterService",
		Path:      "/org/chromium/ComponentUpdaterService",
		Interface: "org.chromium.ComponentUpdaterService",
	}
	concierge = bus.Endpoint{
		Service:   "org.chromium.VmConcierge",
		Path:      "/org/chromium/VmConcierge",
		Interface: "org.chromium.VmConcierge",
	}
	cicerone = bus.Endpoint{
		Service:   "org.chromium.VmCicerone",
		Path:      "/org/chromium/VmCicerone",
		Interface: "org.chromium.VmCicerone",
	}
	seneschal = bus.Endpoint{
		Service:   "org.chromium.Seneschal",
		Path:      "/org/chromium/Seneschal",
		Interface: "org.chromium.Seneschal",
	}
	sessionManager = bus.Endpoint{
		Service:   "org.chromium.SessionManager",
		Path:      "/org/chromium/SessionManager",
		Interface: "org.chromium.SessionManagerInterface",
	}
)

const (
	methodStartVmConcierge = "StartVmConcierge"
	methodLoadComponent    = "LoadComponent"

	methodCreateDiskImage  = "CreateDiskImage"
	methodDestroyDiskImage = "DestroyDiskImage"
	methodExportDiskImage  = "ExportDiskImage"
	methodListVmDisks      = "ListVmDisks"
	methodStartVm          = "StartVm"
	methodStopVm           = "StopVm"
	methodGetVmInfo        = "GetVmInfo"

	methodCreateLxdContainer    = "CreateLxdContainer"
	methodStartLxdContainer     = "StartLxdContainer"
	methodSetUpLxdContainerUser = "SetUpLxdContainerUser"

	signalLxdContainerCreated = "LxdContainerCreated"
	signalContainerStarted    = "ContainerStarted"

	methodSharePath = "SharePath"

	methodRetrieveActiveSessions = "RetrieveActiveSessions"
)
