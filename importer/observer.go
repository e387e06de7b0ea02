package importer

import "github.com/xiaoyuanzhu-com/project-import/models"

// Observer is told about every import run. Implementations must not block.
type Observer interface {
	ImportStarted(run models.ImportRun)
	ImportFinished(run models.ImportRun)
}

// Observers fans one notification out to several observers
type Observers []Observer

func (o Observers) ImportStarted(run models.ImportRun) {
	for _, obs := range o {
		obs.ImportStarted(run)
	}
}

func (o Observers) ImportFinished(run models.ImportRun) {
	for _, obs := range o {
		obs.ImportFinished(run)
	}
}
