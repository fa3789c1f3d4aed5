// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package dataset moves containers in and out of a graph.Store as JSON.

A dataset is self-contained: concept and object IDs are local to the document
and annotations refer to them. Import creates a fresh container and remaps
every ID, so the same file can be loaded any number of times.

	{
	  "version": 1,
	  "name": "harbour photos",
	  "algorithm": "SAGA",
	  "concepts": [{"id": 1, "text": "fishing boat"}],
	  "objects": [{"id": 1, "locator": "img/0001.jpg"}],
	  "annotations": [{"concept": 1, "object": 1, "provenance": "New"}]
	}

Annotations without a provenance are stored as Imported.
*/
package dataset
